package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/redis"
)

type failingBackend struct {
	*redis.MemoryStore
}

func (failingBackend) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func newTestManager(t *testing.T) (*Manager, *redis.MemoryStore) {
	t.Helper()
	store := redis.NewMemoryStore(nil)
	m, err := NewManager(store, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	require.NoError(t, err)
	return m, store
}

func TestGenerateStoresDigestOnly(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := store.Get(ctx, store.AccessSessionKey("jti-1"))
	require.NoError(t, err)
	require.NotEqual(t, token, stored)
	require.Equal(t, digest(token), stored)

	_, err = m.Generate(ctx, " ")
	require.Error(t, err)
}

func TestRotateIsSingleUse(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-1")
	require.NoError(t, err)

	_, _, err = m.Rotate(ctx, "jti-1", "wrong")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	newID, newToken, err := m.Rotate(ctx, "jti-1", token)
	require.NoError(t, err)
	require.NotEqual(t, "jti-1", newID)
	require.NotEqual(t, token, newToken)

	live, err := m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, live)
	live, err = m.HasSession(ctx, newID)
	require.NoError(t, err)
	require.True(t, live)

	_, _, err = m.Rotate(ctx, "jti-1", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, _, err = m.Rotate(ctx, "", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeEndsSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-1")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, "jti-1"))

	live, err := m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, live)

	_, _, err = m.Rotate(ctx, "jti-1", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestBackendFailuresSurface(t *testing.T) {
	m, err := NewManager(failingBackend{redis.NewMemoryStore(nil)}, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	require.NoError(t, err)

	_, err = m.HasSession(context.Background(), "jti-1")
	require.ErrorContains(t, err, "connection refused")
	_, _, err = m.Rotate(context.Background(), "jti-1", "token")
	require.NotErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestNewManagerValidatesTTL(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	require.Error(t, err)

	_, err = NewManager(redis.NewMemoryStore(nil), config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 30})
	require.Error(t, err)

	_, err = NewManager(redis.NewMemoryStore(nil), config.JWTConfig{ExpirationMinutes: 15})
	require.Error(t, err)
}
