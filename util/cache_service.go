// util/cache_service.go

package util

import (
	"context"
	"time"

	"github.com/toolgate/api/db"
)

// CacheService is the generic key/value facade over Redis. Both the decision
// engine and the authoring path go through it, so cache keys and invalidation
// patterns live in one place with their consumers.
type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) Get(ctx context.Context, key string) (string, bool, error) {
	return db.GetValue(ctx, key)
}

func (c *CacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return db.SetValue(ctx, key, value, ttl)
}

func (c *CacheService) DeleteByPattern(ctx context.Context, pattern string) error {
	return db.DeleteByPattern(ctx, pattern)
}
