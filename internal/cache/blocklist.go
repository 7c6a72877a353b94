// Package cache provides a Redis read-through cache in front of the
// blocklist store. Keys are SHA-256 hashes of the card number so raw card
// data never reaches Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "blocklist"

// Source is the authoritative blocklist lookup behind the cache.
type Source interface {
	IsBlocked(ctx context.Context, cardNumber string) (bool, error)
}

// BlocklistCache caches blocklist membership with a TTL. Redis failures
// degrade to the source lookup.
type BlocklistCache struct {
	redis  redis.Cmdable
	source Source
	ttl    time.Duration
}

func NewBlocklistCache(rdb redis.Cmdable, source Source, ttl time.Duration) *BlocklistCache {
	return &BlocklistCache{redis: rdb, source: source, ttl: ttl}
}

// IsBlocked answers from the cache when possible, otherwise consults the
// source and stores the answer.
func (c *BlocklistCache) IsBlocked(ctx context.Context, cardNumber string) (bool, error) {
	key := cacheKey(cardNumber)

	val, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		return val == "1", nil
	}
	if err != redis.Nil {
		zap.L().Warn("blocklist cache read failed, falling back to store", zap.Error(err))
	}

	blocked, err := c.source.IsBlocked(ctx, cardNumber)
	if err != nil {
		return false, err
	}

	cached := "0"
	if blocked {
		cached = "1"
	}
	if err := c.redis.Set(ctx, key, cached, c.ttl).Err(); err != nil {
		zap.L().Warn("blocklist cache write failed", zap.Error(err))
	}
	return blocked, nil
}

// MarkBlocked overwrites the cached entry after a successful block so a
// stale negative answer cannot outlive the command that invalidated it.
func (c *BlocklistCache) MarkBlocked(ctx context.Context, cardNumber string) {
	if err := c.redis.Set(ctx, cacheKey(cardNumber), "1", c.ttl).Err(); err != nil {
		zap.L().Warn("blocklist cache mark failed", zap.Error(err))
	}
}

func cacheKey(cardNumber string) string {
	sum := sha256.Sum256([]byte(cardNumber))
	return fmt.Sprintf("%s:%x", keyPrefix, sum)
}
