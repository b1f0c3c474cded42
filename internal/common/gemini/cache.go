package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/common/metrics"
	"kalastra-backend/internal/models"
)

// Enricher is the contract the caching layer decorates.
type Enricher interface {
	Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error)
}

// CachedEnricher is a cache-aside decorator over an Enricher. Identical
// narratives are served from Redis instead of re-hitting the vendor. Cache
// errors are ignored; the vendor call is the source of truth.
type CachedEnricher struct {
	inner  Enricher
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedEnricher(inner Enricher, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedEnricher {
	return &CachedEnricher{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "enrichment-cache"}),
	}
}

func cacheKey(narrative string) string {
	sum := sha256.Sum256([]byte(narrative))
	return "enrich:" + hex.EncodeToString(sum[:])
}

func (c *CachedEnricher) Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error) {
	key := cacheKey(narrative)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var listing models.StructuredListing
		if err := json.Unmarshal([]byte(val), &listing); err == nil {
			metrics.EnrichmentCallsTotal.WithLabelValues("success", "hit").Inc()
			return &listing, nil
		}
		// Unreadable entry, drop it and fall through to the vendor.
		c.redis.Del(ctx, key)
	}

	listing, err := c.inner.Enrich(ctx, narrative)
	if err != nil {
		metrics.EnrichmentCallsTotal.WithLabelValues("failure", "miss").Inc()
		return nil, err
	}
	metrics.EnrichmentCallsTotal.WithLabelValues("success", "miss").Inc()

	if data, err := json.Marshal(listing); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return listing, nil
}
