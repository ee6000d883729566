// internal/storage/cache.go
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/database"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/metrics"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

// AccountCache is a read-through Redis cache for account summaries.
// Account balances change rarely relative to query volume, so a short TTL
// keeps the summary endpoint off Postgres without staleness concerns.
type AccountCache struct {
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

func NewAccountCache(redisClient *database.RedisClient, ttl time.Duration, log logger.Logger) *AccountCache {
	return &AccountCache{redis: redisClient, ttl: ttl, log: log}
}

func accountCacheKey(userID string, isDemo bool) string {
	return fmt.Sprintf("agent:accounts:%s:%t", userID, isDemo)
}

// Get returns the cached account list and whether it was present. Cache
// failures degrade to a miss so callers always fall through to Postgres.
func (c *AccountCache) Get(ctx context.Context, userID string, isDemo bool) ([]models.AccountRecord, bool) {
	raw, err := c.redis.Get(ctx, accountCacheKey(userID, isDemo))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.AccountCacheHits.WithLabelValues("error").Inc()
			c.log.WithError(err).Warn("account cache read failed", map[string]interface{}{
				"user_id": userID,
			})
		} else {
			metrics.AccountCacheHits.WithLabelValues("miss").Inc()
		}
		return nil, false
	}

	var accounts []models.AccountRecord
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		metrics.AccountCacheHits.WithLabelValues("error").Inc()
		c.log.WithError(err).Warn("account cache entry corrupt, evicting", map[string]interface{}{
			"user_id": userID,
		})
		_ = c.redis.Del(ctx, accountCacheKey(userID, isDemo))
		return nil, false
	}

	metrics.AccountCacheHits.WithLabelValues("hit").Inc()
	return accounts, true
}

// Set stores the account list. Failures are logged and ignored.
func (c *AccountCache) Set(ctx context.Context, userID string, isDemo bool, accounts []models.AccountRecord) {
	payload, err := json.Marshal(accounts)
	if err != nil {
		c.log.WithError(err).Warn("failed to marshal accounts for cache", map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	if err := c.redis.Set(ctx, accountCacheKey(userID, isDemo), payload, c.ttl); err != nil {
		c.log.WithError(err).Warn("account cache write failed", map[string]interface{}{
			"user_id": userID,
		})
	}
}

// Invalidate drops both partitions' entries, used after statement imports.
func (c *AccountCache) Invalidate(ctx context.Context, userID string) {
	if err := c.redis.Del(ctx, accountCacheKey(userID, true), accountCacheKey(userID, false)); err != nil {
		c.log.WithError(err).Warn("account cache invalidation failed", map[string]interface{}{
			"user_id": userID,
		})
	}
}
