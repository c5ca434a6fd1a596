// Package cache contains the read-through settings cache
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
)

const (
	cacheSize = 128
	cacheTTL  = 5 * time.Minute
)

// SettingsCache is a read-through cache over the settings repository.
// Writers must call Invalidate after changing a key, reads elsewhere
// may be stale for at most the TTL.
type SettingsCache struct {
	repo   deps.SettingsRepository
	lru    *expirable.LRU[string, string]
	logger zerolog.Logger
}

// NewSettingsCache creates a settings cache backed by the repository
func NewSettingsCache(repo deps.SettingsRepository, logger zerolog.Logger) *SettingsCache {
	return &SettingsCache{
		repo:   repo,
		lru:    expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
		logger: logger,
	}
}

// Get returns the value for key, consulting the repository on miss.
// Missing keys resolve to the empty string and are cached too.
func (c *SettingsCache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := c.lru.Get(key); ok {
		return value, nil
	}

	value, err := c.repo.Get(ctx, key)
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Failed to load setting")
		return "", err
	}

	c.lru.Add(key, value)
	return value, nil
}

// Invalidate drops the cached value for key
func (c *SettingsCache) Invalidate(key string) {
	c.lru.Remove(key)
}
