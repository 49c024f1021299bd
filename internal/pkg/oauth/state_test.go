package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) (*StateStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStateStore(rdb), mr
}

func TestStateStore_GenerateAndValidate(t *testing.T) {
	store, _ := setupStateStore(t)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/callback")
	require.NoError(t, err)
	assert.Len(t, state, 64) // 32 bytes hex encoded

	uri, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/callback", uri)
}

func TestStateStore_StateIsSingleUse(t *testing.T) {
	store, _ := setupStateStore(t)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/callback")
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	require.NoError(t, err)

	// Second validation must fail
	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}

func TestStateStore_InvalidState(t *testing.T) {
	store, _ := setupStateStore(t)
	ctx := context.Background()

	_, err := store.ValidateState(ctx, "")
	assert.Error(t, err)

	_, err = store.ValidateState(ctx, "unknown-state")
	assert.Error(t, err)
}

func TestStateStore_ExpiredState(t *testing.T) {
	store, mr := setupStateStore(t)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/callback")
	require.NoError(t, err)

	mr.FastForward(stateTTL * 2)

	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}
