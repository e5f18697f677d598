package request

import (
	"github.com/printforge/storefront/internal/model"
)

type AddItem struct {
	ProductID      string                `validate:"required" json:"product_id"`
	Quantity       int32                 `validate:"gte=1"    json:"quantity"`
	Customizations []model.Customization `validate:"dive"     json:"customizations,omitempty"`
	Notes          string                `                    json:"notes,omitempty"`
}

type UpdateQuantity struct {
	Quantity int32 `validate:"gte=1" json:"quantity"`
}
