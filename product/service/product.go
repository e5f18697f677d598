package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/printforge/storefront/internal/docstore"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/otel"
)

const CollectionProducts = "products"

const (
	keyProduct     = "products:%s"
	keyProductList = "products:all"
	cacheTTL       = time.Hour
)

type ProductService struct {
	store docstore.Store
	cache *redis.Client
}

func NewProductService(store docstore.Store, cache *redis.Client) *ProductService {
	return &ProductService{store: store, cache: cache}
}

func (s *ProductService) FindProductById(
	c context.Context,
	id string,
) (model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(keyProduct, id)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, id).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	cached, err := s.cache.Get(c, cacheKey).Bytes()
	if err == nil {
		product := model.Product{}
		if err := json.Unmarshal(cached, &product); err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
		logger.Warn().Msg("discarding unreadable cached product")
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in store").Logger()
	logger.Info().Msg("finding product in store")
	raw, err := s.store.Get(c, CollectionProducts, id)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Product{}, err
	}
	product := model.Product{}
	if err := json.Unmarshal(raw, &product); err != nil {
		err = fmt.Errorf("failed unmarshaling productId=%s with error=%w", id, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Product{}, err
	}
	logger.Info().Msg("found product in store")

	if err := s.cache.Set(c, cacheKey, raw, cacheTTL).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed caching product")
	}
	return product, nil
}

// FindProducts returns the catalog for dropdowns and listings. The cache is
// consulted first; a store outage with a warm cache degrades to stale data
// rather than an error.
func (s *ProductService) FindProducts(c context.Context) ([]model.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyCacheKey, keyProductList).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products in cache").Logger()
	cached, err := s.cache.Get(c, keyProductList).Bytes()
	if err == nil {
		products := []model.Product{}
		if err := json.Unmarshal(cached, &products); err == nil {
			logger.Info().Msg("found products in cache")
			return products, nil
		}
		logger.Warn().Msg("discarding unreadable cached product list")
	}

	logger = logger.With().Str(log.KeyProcess, "finding products in store").Logger()
	logger.Info().Msg("finding products in store")
	raws, err := s.store.Query(c, CollectionProducts, docstore.Query{OrderBy: "name"})
	if err != nil {
		err = fmt.Errorf("failed querying products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	products := make([]model.Product, 0, len(raws))
	for _, raw := range raws {
		product := model.Product{}
		if err := json.Unmarshal(raw, &product); err != nil {
			err = fmt.Errorf("failed unmarshaling product with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		products = append(products, product)
	}
	logger.Info().Msg("found products in store")

	encoded, err := json.Marshal(products)
	if err == nil {
		if err := s.cache.Set(c, keyProductList, encoded, cacheTTL).Err(); err != nil {
			logger.Warn().Err(err).Msg("failed caching product list")
		}
	}
	return products, nil
}
