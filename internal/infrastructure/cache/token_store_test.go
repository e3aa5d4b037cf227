package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokenStore(client), mr
}

func TestTokenStoreRegisterAndRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, AccessTokenKind, 7, "tok-1", time.Minute))

	ok, err := store.Valid(ctx, AccessTokenKind, 7, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Valid(ctx, RefreshTokenKind, 7, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Revoke(ctx, AccessTokenKind, 7, "tok-1"))
	ok, err = store.Valid(ctx, AccessTokenKind, 7, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, AccessTokenKind, 1, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Valid(ctx, AccessTokenKind, 1, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStoreRevokeUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, AccessTokenKind, 1, "a", time.Minute))
	require.NoError(t, store.Register(ctx, RefreshTokenKind, 1, "b", time.Minute))
	require.NoError(t, store.Register(ctx, AccessTokenKind, 2, "c", time.Minute))

	require.NoError(t, store.RevokeUser(ctx, 1))

	for _, tc := range []struct {
		kind TokenKind
		user int64
		id   string
		want bool
	}{
		{AccessTokenKind, 1, "a", false},
		{RefreshTokenKind, 1, "b", false},
		{AccessTokenKind, 2, "c", true},
	} {
		ok, err := store.Valid(ctx, tc.kind, tc.user, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, tc.id)
	}
}
