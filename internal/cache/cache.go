// Package cache stores token analyses in Redis so repeated lookups skip the
// provider and model round trips.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"solana-trade-desk/internal/domain"
)

// DefaultTTL is how long an analysis stays fresh.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "analysis"

// AnalysisCache is a Redis-backed TokenAnalysis cache.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewAnalysisCache creates a cache over client. A non-positive ttl uses DefaultTTL.
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AnalysisCache{client: client, ttl: ttl}
}

// Ping checks connectivity.
func (c *AnalysisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// key returns the Redis key for a token analysis.
func (c *AnalysisCache) key(address, symbol string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, address, strings.ToUpper(symbol))
}

// Get returns the cached analysis, or nil on a miss.
func (c *AnalysisCache) Get(ctx context.Context, address, symbol string) (*domain.TokenAnalysis, error) {
	data, err := c.client.Get(ctx, c.key(address, symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get analysis from cache: %w", err)
	}

	var a domain.TokenAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode cached analysis: %w", err)
	}
	return &a, nil
}

// Set stores an analysis with the cache TTL.
func (c *AnalysisCache) Set(ctx context.Context, a *domain.TokenAnalysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := c.client.Set(ctx, c.key(a.TokenAddress, a.Symbol), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set analysis in cache: %w", err)
	}
	return nil
}

// Invalidate removes a cached analysis.
func (c *AnalysisCache) Invalidate(ctx context.Context, address, symbol string) error {
	return c.client.Del(ctx, c.key(address, symbol)).Err()
}
