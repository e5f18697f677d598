package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/printforge/storefront/internal/docstore"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/events"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/metrics"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/otel"
	"github.com/printforge/storefront/internal/validation"
	"github.com/printforge/storefront/order/pkg/request"
)

const CollectionOrders = "orders"

// OrderService converts a validated cart and checkout form into a persisted
// order and governs its status transitions afterwards. Status transitions are
// expected to arrive only through admin-gated routes; this service does not
// re-check identity itself.
type OrderService struct {
	store     docstore.Store
	publisher events.Publisher
	validate  *validation.Validator
}

func NewOrderService(
	store docstore.Store,
	publisher events.Publisher,
	validate *validation.Validator,
) *OrderService {
	return &OrderService{store: store, publisher: publisher, validate: validate}
}

func (s *OrderService) CreateOrder(
	c context.Context,
	cart model.Cart,
	form request.Checkout,
) (model.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CreateOrder").
		Str(log.KeyCartID, cart.ID).
		Logger()

	if cart.IsEmpty() {
		inErrors.HandleError(inErrors.ErrEmptyCart, span)
		logger.Error().Err(inErrors.ErrEmptyCart).Msg(inErrors.ErrEmptyCart.Error())
		return model.Order{}, inErrors.ErrEmptyCart
	}

	logger = logger.With().Str(log.KeyProcess, "validating cart and checkout form").Logger()
	logger.Info().Msg("validating cart and checkout form")
	if err := s.validate.Struct(c, cart); err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	if err := s.validate.Struct(c, form); err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	logger.Info().Msg("validated cart and checkout form")

	logger = logger.With().Str(log.KeyProcess, "snapshotting cart items").Logger()
	logger.Info().Msg("snapshotting cart items")
	// prices are captured here once; later catalog changes never rewrite them
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItem := model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice(),
			LineTotal:   item.LineTotal(),
		}
		if len(item.Product.Images) > 0 {
			orderItem.Image = item.Product.Images[0]
		}
		items = append(items, orderItem)
	}
	logger.Info().Msg("snapshotted cart items")

	// totals are derived from the snapshot, not copied from the client cart
	cart.RecomputeTotals()
	now := time.Now().UTC()
	order := model.Order{
		ID:            uuid.NewString(),
		Customer:      form.Customer(),
		Date:          now,
		Status:        model.OrderStatusPending,
		Items:         items,
		Subtotal:      cart.Subtotal,
		Tax:           cart.Tax,
		Shipping:      cart.Shipping,
		Total:         cart.Total,
		PaymentMethod: form.PaymentMethod,
		Notes:         form.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	logger = logger.With().
		Str(log.KeyProcess, "persisting order").
		Str(log.KeyOrderID, order.ID).
		Logger()
	logger.Info().Msg("persisting order")
	// a failed create surfaces to the caller; a blind retry could duplicate
	// the order
	c = logger.WithContext(c)
	if err := s.store.Put(c, CollectionOrders, order.ID, order); err != nil {
		err = fmt.Errorf("failed persisting orderId=%s with error=%w", order.ID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	metrics.OrdersCreated.Inc()
	logger.Info().Msg("persisted order")

	return order, nil
}

// Transition moves an order along the status graph. Requesting the current
// status again is a successful no-op that does not bump updatedAt.
func (s *OrderService) Transition(
	c context.Context,
	orderID string,
	newStatus model.OrderStatus,
) (model.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService Transition")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Transition").
		Str(log.KeyOrderID, orderID).
		Str(log.KeyOrderStatus, string(newStatus)).
		Logger()

	if !newStatus.Valid() {
		err := fmt.Errorf("unknown status %q with error=%w", newStatus, inErrors.ErrInvalidTransition)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := s.FindOrderById(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding orderId=%s with error=%w", orderID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	logger.Info().Msg("found order")

	if order.Status == newStatus {
		logger.Info().Msg("order already in requested status, nothing to do")
		return order, nil
	}

	if !order.Status.CanTransitionTo(newStatus) {
		err := fmt.Errorf(
			"cannot transition orderId=%s from %s to %s with error=%w",
			orderID,
			order.Status,
			newStatus,
			inErrors.ErrInvalidTransition,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}

	previous := order.Status
	order.Status = newStatus
	order.UpdatedAt = time.Now().UTC()

	logger = logger.With().Str(log.KeyProcess, "persisting order status").Logger()
	logger.Info().Msgf("persisting status transition %s -> %s", previous, newStatus)
	if err := s.store.Put(c, CollectionOrders, order.ID, order); err != nil {
		err = fmt.Errorf("failed persisting orderId=%s with error=%w", orderID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	metrics.OrderStatusTransitions.WithLabelValues(string(newStatus)).Inc()
	logger.Info().Msg("persisted status transition")

	logger = logger.With().Str(log.KeyProcess, "publishing status change").Logger()
	logger.Info().Msg("publishing status change")
	if err := s.publisher.OrderStatusChanged(c, order, previous); err != nil {
		// delivery is a side effect, the transition itself already committed
		logger.Warn().Err(err).Msg("failed publishing status change")
	} else {
		logger.Info().Msg("published status change")
	}

	return order, nil
}

func (s *OrderService) FindOrderById(c context.Context, orderID string) (model.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyOrderID, orderID).
		Logger()

	raw, err := s.store.Get(c, CollectionOrders, orderID)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}

	order := model.Order{}
	if err := json.Unmarshal(raw, &order); err != nil {
		err = fmt.Errorf("failed unmarshaling orderId=%s with error=%w", orderID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	return order, nil
}

func (s *OrderService) FindOrders(
	c context.Context,
	param request.FindOrders,
) ([]model.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Str(log.KeyOrderStatus, string(param.Status)).
		Logger()

	query := docstore.Query{
		OrderBy:    "created_at",
		Descending: true,
		Limit:      param.Limit,
	}
	if param.Status != "" {
		query.Filters = append(query.Filters, docstore.Filter{
			Field: "status",
			Op:    "==",
			Value: string(param.Status),
		})
	}

	raws, err := s.store.Query(c, CollectionOrders, query)
	if err != nil {
		err = fmt.Errorf("failed querying orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	orders := make([]model.Order, 0, len(raws))
	for _, raw := range raws {
		order := model.Order{}
		if err := json.Unmarshal(raw, &order); err != nil {
			err = fmt.Errorf("failed unmarshaling order with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
