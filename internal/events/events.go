package events

import (
	"context"

	"github.com/printforge/storefront/internal/model"
)

const ChannelOrderStatusChanged = "orders.status-changed"

// OrderStatusChanged is published after every successful status transition.
// Actual delivery (message, email) is the notification service's concern.
type OrderStatusChanged struct {
	Order          model.Order       `json:"order"`
	PreviousStatus model.OrderStatus `json:"previous_status"`
}

// Publisher is the status-change notification hook fired by the order
// lifecycle.
type Publisher interface {
	OrderStatusChanged(c context.Context, order model.Order, previous model.OrderStatus) error
}
