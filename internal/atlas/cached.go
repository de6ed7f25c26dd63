package atlas

import (
	"context"
	"log/slog"

	"github.com/MikeSquared-Agency/Roost/internal/observability"
)

// Cached wraps a Client with the SQLite cache. Cache trouble is logged and
// degraded around, never surfaced: a broken cache must not block a lookup.
type Cached struct {
	inner   Client
	cache   *Cache
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewCached(inner Client, cache *Cache, metrics *observability.Metrics, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, cache: cache, metrics: metrics, logger: logger}
}

func (c *Cached) Lookup(ctx context.Context, address string) (*NeighborhoodData, error) {
	nd, hit, err := c.cache.Get(ctx, address)
	if err != nil {
		c.logger.Warn("neighborhood cache read failed", "error", err)
	} else if hit {
		c.metrics.EnrichmentLookup("cache")
		return nd, nil
	}

	nd, err = c.inner.Lookup(ctx, address)
	if err != nil {
		c.metrics.EnrichmentLookup("error")
		return nil, err
	}
	c.metrics.EnrichmentLookup("ok")

	if err := c.cache.Put(ctx, address, nd); err != nil {
		c.logger.Warn("neighborhood cache write failed", "error", err)
	}
	return nd, nil
}
