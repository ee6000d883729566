package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/database"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

func newTestCache(t *testing.T) (*AccountCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { client.Close() })
	return NewAccountCache(client, 5*time.Minute, logger.NewNoOpLogger()), mr
}

func TestAccountCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	accounts := []models.AccountRecord{
		{AccountID: "acct-1", Name: "Checking", Type: "depository", Mask: "1234"},
	}

	_, ok := cache.Get(context.Background(), "user-1", false)
	assert.False(t, ok)

	cache.Set(context.Background(), "user-1", false, accounts)

	got, ok := cache.Get(context.Background(), "user-1", false)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "acct-1", got[0].AccountID)
	assert.Equal(t, "Checking", got[0].Name)
	assert.Equal(t, "1234", got[0].Mask)
}

func TestAccountCachePartitionsAreSeparate(t *testing.T) {
	cache, _ := newTestCache(t)
	cache.Set(context.Background(), "user-1", false, []models.AccountRecord{{AccountID: "real"}})

	_, ok := cache.Get(context.Background(), "user-1", true)
	assert.False(t, ok)
}

func TestAccountCacheCorruptEntryEvicted(t *testing.T) {
	cache, mr := newTestCache(t)
	require.NoError(t, mr.Set("agent:accounts:user-1:false", "{not json"))

	_, ok := cache.Get(context.Background(), "user-1", false)

	assert.False(t, ok)
	assert.False(t, mr.Exists("agent:accounts:user-1:false"))
}

func TestAccountCacheInvalidateDropsBothPartitions(t *testing.T) {
	cache, mr := newTestCache(t)
	cache.Set(context.Background(), "user-1", false, []models.AccountRecord{{AccountID: "real"}})
	cache.Set(context.Background(), "user-1", true, []models.AccountRecord{{AccountID: "demo"}})

	cache.Invalidate(context.Background(), "user-1")

	assert.False(t, mr.Exists("agent:accounts:user-1:false"))
	assert.False(t, mr.Exists("agent:accounts:user-1:true"))
}

func TestAccountCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	cache.Set(context.Background(), "user-1", false, []models.AccountRecord{{AccountID: "acct-1"}})

	mr.FastForward(10 * time.Minute)

	_, ok := cache.Get(context.Background(), "user-1", false)
	assert.False(t, ok)
}
