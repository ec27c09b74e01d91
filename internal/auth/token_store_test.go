package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/cache"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.StoreRefreshToken(ctx, "r1", 7, time.Minute))
	userID, err := store.GetRefreshToken(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	require.NoError(t, store.DeleteRefreshToken(ctx, "r1"))
	_, err = store.GetRefreshToken(ctx, "r1")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	require.NoError(t, store.RevokeAccessToken(ctx, "a1", time.Minute))
	revoked, err := store.IsAccessTokenRevoked(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsAccessTokenRevoked(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryTokenStore_RefreshExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.StoreRefreshToken(ctx, "r1", 7, time.Second))
	now = now.Add(time.Second)
	_, err := store.GetRefreshToken(ctx, "r1")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestMemoryTokenStore_SweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.StoreRefreshToken(ctx, "r1", 7, time.Second))
	require.NoError(t, store.RevokeAccessToken(ctx, "a1", time.Second))
	require.NoError(t, store.StoreRefreshToken(ctx, "r2", 7, time.Hour))

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.RevokeAccessToken(ctx, "a2", time.Hour))

	assert.NotContains(t, store.refresh, "r1")
	assert.NotContains(t, store.revoked, "a1")
	assert.Contains(t, store.refresh, "r2")
	assert.Contains(t, store.revoked, "a2")
}

func TestTokenStore_DisabledCache(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(cache.New("", "", 0))

	require.NoError(t, store.StoreRefreshToken(ctx, "r1", 7, time.Minute))
	_, err := store.GetRefreshToken(ctx, "r1")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	revoked, err := store.IsAccessTokenRevoked(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
