package products

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agroconnect/agroconnect-backend/pkg/logger"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CacheKey(parts ...string) string
}

// listCache keeps the full catalog in Redis under a generation number. Writes
// bump the generation instead of deleting, so a fill computed before a write
// lands under a key no reader asks for and ages out with the TTL. Every
// failure is logged and treated as a miss so reads fall through to the
// database.
type listCache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func (c *listCache) enabled() bool {
	return c != nil && c.store != nil && c.ttl > 0
}

func (c *listCache) generationKey() string {
	return c.store.CacheKey("products", "generation")
}

func (c *listCache) key(generation string) string {
	return c.store.CacheKey("products", "all", generation)
}

// generation reads the current catalog generation. ok is false when the cache
// is off or unreadable, in which case the caller must not fill it.
func (c *listCache) generation(ctx context.Context) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	gen, err := c.store.Get(ctx, c.generationKey())
	switch {
	case errors.Is(err, redis.Nil):
		return "0", true
	case err != nil:
		c.warn(ctx, "product cache generation read failed", err)
		return "", false
	}
	return gen, true
}

func (c *listCache) get(ctx context.Context, generation string) ([]ProductDTO, bool) {
	raw, err := c.store.Get(ctx, c.key(generation))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn(ctx, "product cache read failed", err)
		}
		return nil, false
	}
	var list []ProductDTO
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		c.warn(ctx, "product cache entry corrupt", err)
		return nil, false
	}
	return list, true
}

func (c *listCache) put(ctx context.Context, generation string, list []ProductDTO) {
	payload, err := json.Marshal(list)
	if err != nil {
		c.warn(ctx, "product cache encode failed", err)
		return
	}
	if err := c.store.Set(ctx, c.key(generation), string(payload), c.ttl); err != nil {
		c.warn(ctx, "product cache write failed", err)
	}
}

func (c *listCache) invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if _, err := c.store.IncrWithTTL(ctx, c.generationKey(), 0); err != nil {
		c.warn(ctx, "product cache invalidate failed", err)
	}
}

func (c *listCache) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}
