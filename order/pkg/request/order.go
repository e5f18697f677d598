package request

import (
	"github.com/printforge/storefront/internal/model"
)

// Checkout is the customer-data form submitted alongside the cart.
type Checkout struct {
	Name          string `validate:"required,min=2" json:"name"`
	Email         string `validate:"required,email" json:"email"`
	Phone         string `                          json:"phone,omitempty"`
	City          string `validate:"required,min=2" json:"city"`
	Address       string `                          json:"address,omitempty"`
	Notes         string `                          json:"notes,omitempty"`
	PaymentMethod string `                          json:"payment_method,omitempty"`
}

func (f Checkout) Customer() model.Customer {
	return model.Customer{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		City:    f.City,
		Address: f.Address,
	}
}

type UpdateOrderStatus struct {
	Status model.OrderStatus `validate:"required" json:"status"`
}

type FindOrders struct {
	Status model.OrderStatus `json:"status,omitempty"`
	Limit  int               `json:"limit,omitempty"`
}
