package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/events"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/otel"
)

// NotificationService consumes order status changes published by the store
// service and notifies the customer. Delivery is currently a structured log
// entry; the channel contract stays the same when a real mail provider is
// plugged in.
type NotificationService struct {
	cache *redis.Client
}

func NewNotificationService(cache *redis.Client) *NotificationService {
	return &NotificationService{cache: cache}
}

// Listen blocks until the context is cancelled, handling each status change
// as it arrives. A malformed message is logged and skipped, never fatal.
func (s *NotificationService) Listen(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService Listen").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "subscribing to status changes").Logger()
	logger.Info().Msgf("subscribing to channel=%s", events.ChannelOrderStatusChanged)
	pubsub := s.cache.Subscribe(c, events.ChannelOrderStatusChanged)
	defer pubsub.Close()
	logger.Info().Msgf("subscribed to channel=%s", events.ChannelOrderStatusChanged)

	messages := pubsub.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopping status change listener")
			return
		case message, ok := <-messages:
			if !ok {
				logger.Info().Msg("subscription channel closed")
				return
			}
			s.handleMessage(c, message.Payload)
		}
	}
}

func (s *NotificationService) handleMessage(c context.Context, payload string) {
	c, span := otel.Tracer.Start(c, "NotificationService handleMessage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService handleMessage").
		Logger()

	event := events.OrderStatusChanged{}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		err = fmt.Errorf("failed unmarshaling status change with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	logger = logger.With().
		Str(log.KeyOrderID, event.Order.ID).
		Str(log.KeyOrderStatus, string(event.Order.Status)).
		Str(log.KeyEmail, event.Order.Customer.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "notifying customer").Logger()
	logger.Info().Msg("notifying customer")
	logger.Info().
		Str("subject", subjectFor(event.Order.Status)).
		Msgf(
			"order %s moved from %s to %s",
			event.Order.ID,
			event.PreviousStatus,
			event.Order.Status,
		)
	logger.Info().Msg("notified customer")
}

func subjectFor(status model.OrderStatus) string {
	switch status {
	case model.OrderStatusProcessing:
		return "Your order is being printed"
	case model.OrderStatusShipped:
		return "Your order is on its way"
	case model.OrderStatusDelivered:
		return "Your order has been delivered"
	case model.OrderStatusCancelled:
		return "Your order was cancelled"
	case model.OrderStatusRefunded:
		return "Your order was refunded"
	default:
		return "Your order status changed"
	}
}
