package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/otel"
)

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) OrderStatusChanged(
	c context.Context,
	order model.Order,
	previous model.OrderStatus,
) error {
	c, span := otel.Tracer.Start(c, "RedisPublisher OrderStatusChanged")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisPublisher OrderStatusChanged").
		Str(log.KeyOrderID, order.ID).
		Str(log.KeyOrderStatus, string(order.Status)).
		Logger()

	payload, err := json.Marshal(OrderStatusChanged{Order: order, PreviousStatus: previous})
	if err != nil {
		err = fmt.Errorf("failed marshaling order status event with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "publishing order status event").Logger()
	logger.Info().Msg("publishing order status event")
	err = p.client.Publish(c, ChannelOrderStatusChanged, payload).Err()
	if err != nil {
		err = fmt.Errorf("failed publishing order status event with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("published order status event")

	return nil
}
