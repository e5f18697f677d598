package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/printforge/storefront/cart/pkg/request"
	"github.com/printforge/storefront/cart/storage"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/otel"
	"github.com/printforge/storefront/internal/validation"
)

// ProductFinder resolves a catalog product so its displayable fields can be
// snapshotted into the cart line at add time.
type ProductFinder interface {
	FindProductById(c context.Context, id string) (model.Product, error)
}

// CartService owns the authoritative in-session carts. Each cart has a single
// writer (its owning session); the mutex only guards the session map itself.
// Every mutation recomputes totals and then writes a snapshot to storage;
// snapshot failures are logged and never fail the mutation.
type CartService struct {
	mu       sync.Mutex
	carts    map[string]*model.Cart
	storage  storage.Storage
	products ProductFinder
	validate *validation.Validator
}

func NewCartService(
	store storage.Storage,
	products ProductFinder,
	validate *validation.Validator,
) *CartService {
	return &CartService{
		carts:    map[string]*model.Cart{},
		storage:  store,
		products: products,
		validate: validate,
	}
}

func (s *CartService) FindCartById(c context.Context, cartID string) (model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartById")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(c, cartID)
	return copyCart(cart), nil
}

func (s *CartService) AddItem(
	c context.Context,
	cartID string,
	param request.AddItem,
) (model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyCartID, cartID).
		Str(log.KeyProductID, param.ProductID).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity < 1 {
		inErrors.HandleError(inErrors.ErrInvalidQuantity, span)
		logger.Error().Err(inErrors.ErrInvalidQuantity).Msg(inErrors.ErrInvalidQuantity.Error())
		return model.Cart{}, inErrors.ErrInvalidQuantity
	}

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	c = logger.WithContext(c)
	product, err := s.products.FindProductById(c, param.ProductID)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", param.ProductID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Cart{}, err
	}
	logger.Info().Msg("found product")

	item := model.CartItem{
		ID:             uuid.NewString(),
		ProductID:      param.ProductID,
		Product:        product.Snapshot(),
		Quantity:       param.Quantity,
		Customizations: param.Customizations,
		AddedAt:        model.NewTimestamp(time.Now()),
		Notes:          param.Notes,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(c, cartID)

	logger = logger.With().Str(log.KeyProcess, "merging cart line").Logger()
	merged := false
	for i := range cart.Items {
		if cart.Items[i].LineKey() == item.LineKey() {
			cart.Items[i].Quantity += param.Quantity
			merged = true
			logger.Info().
				Int32(log.KeyQuantity, cart.Items[i].Quantity).
				Msg("merged quantity into existing cart line")
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
		logger.Info().Str(log.KeyCartItemID, item.ID).Msg("appended new cart line")
	}

	s.mutated(c, cart)
	return copyCart(cart), nil
}

func (s *CartService) UpdateQuantity(
	c context.Context,
	cartID string,
	itemID string,
	quantity int32,
) (model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyCartID, cartID).
		Str(log.KeyCartItemID, itemID).
		Int32(log.KeyQuantity, quantity).
		Logger()

	// quantity zero is not a removal; the caller must use RemoveItem.
	if quantity < 1 {
		inErrors.HandleError(inErrors.ErrInvalidQuantity, span)
		logger.Error().Err(inErrors.ErrInvalidQuantity).Msg(inErrors.ErrInvalidQuantity.Error())
		return model.Cart{}, inErrors.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(c, cartID)

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			s.mutated(c, cart)
			logger.Info().Msg("updated cart line quantity")
			return copyCart(cart), nil
		}
	}

	inErrors.HandleError(inErrors.ErrItemNotFound, span)
	logger.Error().Err(inErrors.ErrItemNotFound).Msg(inErrors.ErrItemNotFound.Error())
	return model.Cart{}, inErrors.ErrItemNotFound
}

// RemoveItem is idempotent: removing an id that is not in the cart leaves the
// cart untouched and is not an error.
func (s *CartService) RemoveItem(
	c context.Context,
	cartID string,
	itemID string,
) (model.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyCartID, cartID).
		Str(log.KeyCartItemID, itemID).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(c, cartID)

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			s.mutated(c, cart)
			logger.Info().Msg("removed cart line")
			return copyCart(cart), nil
		}
	}

	logger.Info().Msg("cart line already absent, nothing to remove")
	return copyCart(cart), nil
}

// Clear destroys the cart after a successful checkout.
func (s *CartService) Clear(c context.Context, cartID string) {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyCartID, cartID).
		Logger()

	s.mu.Lock()
	delete(s.carts, cartID)
	s.mu.Unlock()

	if err := s.storage.Delete(c, cartID); err != nil {
		logger.Warn().Err(err).Msg("failed deleting cart snapshot, leaving stale entry to expire")
		return
	}
	logger.Info().Msg("cleared cart")
}

// cart returns the live cart for the session, loading a stored snapshot the
// first time it is seen. A missing, corrupt, or schema-invalid snapshot never
// surfaces to the shopper: the session just starts with an empty cart.
// Callers must hold s.mu.
func (s *CartService) cart(c context.Context, cartID string) *model.Cart {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService cart").
		Str(log.KeyCartID, cartID).
		Logger()

	if cart, ok := s.carts[cartID]; ok {
		return cart
	}

	cart := emptyCart(cartID)
	snapshot, err := s.storage.Load(c, cartID)
	if err == nil {
		restored := model.Cart{}
		if err := json.Unmarshal(snapshot, &restored); err != nil {
			logger.Warn().Err(err).Msg("discarding unreadable cart snapshot, starting empty")
		} else if err := s.validate.Struct(c, restored); err != nil {
			logger.Warn().Err(err).Msg("discarding invalid cart snapshot, starting empty")
		} else {
			// stored totals are never trusted, they are derived again below
			cart = &restored
		}
	}

	cart.RecomputeTotals()
	s.carts[cartID] = cart
	return cart
}

// mutated finishes every cart mutation: derive totals, stamp, persist.
// Callers must hold s.mu.
func (s *CartService) mutated(c context.Context, cart *model.Cart) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService mutated").
		Str(log.KeyCartID, cart.ID).
		Logger()

	cart.RecomputeTotals()
	cart.UpdatedAt = model.NewTimestamp(time.Now())

	snapshot, err := json.Marshal(cart)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling cart snapshot, kept in memory only")
		return
	}
	if err := s.storage.Save(c, cart.ID, snapshot); err != nil {
		logger.Warn().Err(err).Msg("failed persisting cart snapshot, kept in memory only")
	}
}

func emptyCart(cartID string) *model.Cart {
	now := model.NewTimestamp(time.Now())
	return &model.Cart{
		ID:        cartID,
		Items:     []model.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func copyCart(cart *model.Cart) model.Cart {
	out := *cart
	out.Items = make([]model.CartItem, len(cart.Items))
	copy(out.Items, cart.Items)
	return out
}
