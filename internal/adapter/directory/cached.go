package directory

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// CachedDirectory decorates a Directory with a bounded-TTL cache.
// Directory data changes rarely and validation hits it on every append,
// so lookups are cached; staleness is bounded by the TTL. Cache failures
// degrade to the inner directory, never to a rejected movement.
type CachedDirectory struct {
	inner  usecase.Directory
	cache  usecase.Cache
	logger zerolog.Logger
}

// NewCachedDirectory creates a new CachedDirectory.
func NewCachedDirectory(inner usecase.Directory, cache usecase.Cache, logger zerolog.Logger) *CachedDirectory {
	return &CachedDirectory{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// WarehouseExists reports whether a warehouse ID is known.
func (d *CachedDirectory) WarehouseExists(ctx context.Context, id string) (bool, error) {
	if _, err := d.LookupWarehouse(ctx, id); err != nil {
		if domain.IsValidation(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// ProductExists reports whether a product ID is known.
func (d *CachedDirectory) ProductExists(ctx context.Context, id string) (bool, error) {
	if _, err := d.LookupProduct(ctx, id); err != nil {
		if domain.IsValidation(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// LookupWarehouse retrieves a warehouse by ID, preferring the cache.
func (d *CachedDirectory) LookupWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	key := "directory:warehouse:" + id

	if cached, err := d.cache.Get(ctx, key); err == nil && cached != nil {
		var w domain.Warehouse
		if err := json.Unmarshal(cached, &w); err == nil {
			return &w, nil
		}
	} else if err != nil {
		d.logger.Warn().Err(err).Str("key", key).Msg("directory cache read failed")
	}

	w, err := d.inner.LookupWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}

	d.store(ctx, key, w)

	return w, nil
}

// LookupProduct retrieves a product by ID, preferring the cache.
func (d *CachedDirectory) LookupProduct(ctx context.Context, id string) (*domain.Product, error) {
	key := "directory:product:" + id

	if cached, err := d.cache.Get(ctx, key); err == nil && cached != nil {
		var p domain.Product
		if err := json.Unmarshal(cached, &p); err == nil {
			return &p, nil
		}
	} else if err != nil {
		d.logger.Warn().Err(err).Str("key", key).Msg("directory cache read failed")
	}

	p, err := d.inner.LookupProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	d.store(ctx, key, p)

	return p, nil
}

// ListWarehouses bypasses the cache; listings are rare and want fresh
// data.
func (d *CachedDirectory) ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	return d.inner.ListWarehouses(ctx)
}

func (d *CachedDirectory) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := d.cache.Set(ctx, key, data, usecase.DirectoryCacheTTL); err != nil {
		d.logger.Warn().Err(err).Str("key", key).Msg("directory cache write failed")
	}
}
