package repository

import (
	"context"
	"testing"
	"time"

	"iaprender_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_NilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(nil)

	assert.False(t, store.Enabled())
	require.NoError(t, store.RevokeToken(ctx, "jti", time.Hour))
	revoked, err := store.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	n, err := store.RecordFailedLogin(ctx, "a@b.c", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)

	var out map[string]int
	hit, err := store.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisStore_RevokeToken(t *testing.T) {
	ctx := context.Background()
	rdb, mr := testutil.NewRedis(t)
	store := NewRedisStore(rdb)

	require.NoError(t, store.RevokeToken(ctx, "abc", time.Minute))
	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStore_FailedLoginWindow(t *testing.T) {
	ctx := context.Background()
	rdb, mr := testutil.NewRedis(t)
	store := NewRedisStore(rdb)

	for i := 0; i < 3; i++ {
		_, err := store.RecordFailedLogin(ctx, "ana@example.com", 15*time.Minute)
		require.NoError(t, err)
	}
	n, err := store.FailedLogins(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mr.FastForward(16 * time.Minute)
	n, err = store.FailedLogins(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStore_FailedLoginRepairsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	rdb, mr := testutil.NewRedis(t)
	store := NewRedisStore(rdb)

	n, err := store.RecordFailedLogin(ctx, "bia@example.com", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 15*time.Minute, mr.TTL(failedLoginKey("bia@example.com")))

	// counter left behind without a TTL
	require.NoError(t, mr.Set(failedLoginKey("caio@example.com"), "4"))
	n, err = store.RecordFailedLogin(ctx, "caio@example.com", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, 15*time.Minute, mr.TTL(failedLoginKey("caio@example.com")))

	mr.FastForward(16 * time.Minute)
	n, err = store.FailedLogins(ctx, "caio@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStore_JSONCache(t *testing.T) {
	ctx := context.Background()
	rdb, _ := testutil.NewRedis(t)
	store := NewRedisStore(rdb)

	require.NoError(t, store.SetJSON(ctx, "overview", map[string]int{"active": 3}, time.Minute))
	var out map[string]int
	hit, err := store.GetJSON(ctx, "overview", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, out["active"])

	require.NoError(t, store.Delete(ctx, "overview"))
	hit, err = store.GetJSON(ctx, "overview", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
