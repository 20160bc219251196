// Package rescache is an optional caching decorator over the read
// repository: identical translated queries within the TTL are served
// from a key-value store instead of the engine.
package rescache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/skran-dev/sphindex/internal/domain/result"
	"github.com/skran-dev/sphindex/internal/kv"
	"github.com/skran-dev/sphindex/internal/translate"
)

const cacheKeyPrefix = "sphindex:rescache:"

// store is the consumer interface for the cache backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// repository mirrors usecase/read.Repository.
type repository interface {
	Search(ctx context.Context, indexes []string, t *translate.Translation) (*result.Set, error)
}

// CachedRepo serves repeated queries from the store. Store failures
// degrade to a direct engine call, never to a query failure.
type CachedRepo struct {
	inner      repository
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner repository,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRepo{inner: inner, store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Search returns a cached result set or falls through to the engine.
func (c *CachedRepo) Search(ctx context.Context, indexes []string, t *translate.Translation) (*result.Set, error) {
	key, err := c.cacheKey(indexes, t)
	if err != nil {
		return c.inner.Search(ctx, indexes, t)
	}

	if set, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return set, nil
	}
	c.incCache("miss")

	set, err := c.inner.Search(ctx, indexes, t)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, set)
	return set, nil
}

func (c *CachedRepo) incCache(outcome string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(outcome).Inc()
	}
}

func (c *CachedRepo) cacheKey(indexes []string, t *translate.Translation) (string, error) {
	payload, err := json.Marshal(struct {
		Indexes     []string
		Translation *translate.Translation
	}{indexes, t})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	h := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(h[:]), nil
}

func (c *CachedRepo) getFromCache(ctx context.Context, key string) (*result.Set, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			c.logger.Warn("failed to read result cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var dto setDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("corrupt cached result, ignoring", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return dto.toSet(), true
}

func (c *CachedRepo) putToCache(ctx context.Context, key string, set *result.Set) {
	data, err := json.Marshal(fromSet(set))
	if err != nil {
		c.logger.Warn("failed to marshal result set", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("failed to write result cache", zap.String("key", key), zap.Error(err))
	}
}
