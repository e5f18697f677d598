package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Customization struct {
	Name          string          `validate:"required" json:"name"`
	Value         string          `validate:"required" json:"value"`
	PriceModifier decimal.Decimal `                    json:"price_modifier"`
}

type CartItem struct {
	ID             string          `validate:"required"      json:"id"`
	ProductID      string          `validate:"required"      json:"product_id"`
	Product        ProductSnapshot `validate:"required"      json:"product"`
	Quantity       int32           `validate:"gte=1"         json:"quantity"`
	Customizations []Customization `validate:"dive"          json:"customizations,omitempty"`
	AddedAt        Timestamp       `                         json:"added_at"`
	Notes          string          `                         json:"notes,omitempty"`
}

// UnitPrice is the snapshot price plus every customization modifier.
func (i CartItem) UnitPrice() decimal.Decimal {
	price := i.Product.Price
	for _, c := range i.Customizations {
		price = price.Add(c.PriceModifier)
	}
	return price
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt32(i.Quantity))
}

// LineKey identifies a cart line by product and customization set, order of
// customizations not significant. Adding the same product with the same set
// increments the existing line instead of appending a new one.
func (i CartItem) LineKey() string {
	keys := make([]string, 0, len(i.Customizations))
	for _, c := range i.Customizations {
		keys = append(keys, fmt.Sprintf("%s=%s@%s", c.Name, c.Value, c.PriceModifier.String()))
	}
	sort.Strings(keys)
	return i.ProductID + "|" + strings.Join(keys, ",")
}

type Cart struct {
	ID        string          `validate:"required"  json:"id"`
	Items     []CartItem      `validate:"dive"      json:"items"`
	Subtotal  decimal.Decimal `                     json:"subtotal"`
	Tax       decimal.Decimal `                     json:"tax"`
	Shipping  decimal.Decimal `                     json:"shipping"`
	Discount  decimal.Decimal `                     json:"discount"`
	Total     decimal.Decimal `                     json:"total"`
	Currency  string          `                     json:"currency,omitempty"`
	CreatedAt Timestamp       `                     json:"created_at"`
	UpdatedAt Timestamp       `                     json:"updated_at"`
}

// RecomputeTotals derives subtotal and total from the items. Stored totals are
// never trusted on load; this runs after every mutation and every
// deserialization so persisted snapshots cannot drift.
func (c *Cart) RecomputeTotals() {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	c.Subtotal = subtotal
	c.Total = subtotal.Add(c.Tax).Add(c.Shipping).Sub(c.Discount)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
