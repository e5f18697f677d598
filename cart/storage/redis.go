package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/otel"
)

const keyCart = "carts:%s"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Save(c context.Context, cartID string, snapshot []byte) error {
	c, span := otel.Tracer.Start(c, "storage.Redis Save")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCart, cartID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storage.Redis Save").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	err := r.client.Set(c, cacheKey, snapshot, r.ttl).Err()
	if err != nil {
		err = fmt.Errorf("failed saving cart snapshot with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (r *Redis) Load(c context.Context, cartID string) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "storage.Redis Load")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCart, cartID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storage.Redis Load").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	snapshot, err := r.client.Get(c, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		err = fmt.Errorf("failed loading cart snapshot with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return snapshot, nil
}

func (r *Redis) Delete(c context.Context, cartID string) error {
	c, span := otel.Tracer.Start(c, "storage.Redis Delete")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCart, cartID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storage.Redis Delete").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	err := r.client.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart snapshot with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}
