package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `validate:"required"  json:"id"`
	Name        string          `validate:"required"  json:"name"`
	Description string          `                     json:"description,omitempty"`
	Price       decimal.Decimal `validate:"gte=0"     json:"price"`
	Images      []string        `                     json:"images,omitempty"`
	Category    string          `                     json:"category,omitempty"`
	CreatedAt   Timestamp       `                     json:"created_at"`
	UpdatedAt   Timestamp       `                     json:"updated_at"`
}

// ProductSnapshot is the displayable slice of a product captured at
// add-to-cart time, so later catalog changes never rewrite cart or order
// price history.
type ProductSnapshot struct {
	Name   string          `validate:"required" json:"name"`
	Price  decimal.Decimal `validate:"gte=0"    json:"price"`
	Images []string        `                    json:"images,omitempty"`
}

func (p Product) Snapshot() ProductSnapshot {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	return ProductSnapshot{Name: p.Name, Price: p.Price, Images: images}
}
