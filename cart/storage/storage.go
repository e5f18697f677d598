package storage

import (
	"context"
	"errors"
)

var ErrNoSnapshot = errors.New("no cart snapshot")

// Storage keeps serialized cart snapshots. It is an advisory cache: the cart
// store recomputes totals on every load and silently starts empty when a
// snapshot is missing or corrupt, so implementations never have to guarantee
// durability.
type Storage interface {
	Save(c context.Context, cartID string, snapshot []byte) error
	Load(c context.Context, cartID string) ([]byte, error)
	Delete(c context.Context, cartID string) error
}
