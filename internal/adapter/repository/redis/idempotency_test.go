package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_FirstClaimWins(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	existing, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, existing)

	existing, reserved, err = store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Empty(t, existing, "pending claim must not expose a transaction id")
}

func TestIdempotencyStore_DuplicateSeesStoredID(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	_, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)

	require.NoError(t, store.Store(ctx, "fp-1", "tx-123"))

	existing, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "tx-123", existing)
}

func TestIdempotencyStore_ExpiryAllowsResubmission(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	_, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)
	require.NoError(t, store.Store(ctx, "fp-1", "tx-123"))

	mr.FastForward(14 * time.Minute)
	existing, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "tx-123", existing)

	mr.FastForward(2 * time.Minute)
	existing, reserved, err = store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.True(t, reserved, "expired record must be claimable again")
	assert.Empty(t, existing)
}

func TestIdempotencyStore_StoreRestartsTTL(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	_, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)

	mr.FastForward(10 * time.Minute)
	require.NoError(t, store.Store(ctx, "fp-1", "tx-123"))

	mr.FastForward(10 * time.Minute)
	existing, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "tx-123", existing)
}

func TestIdempotencyStore_ReleaseFreesClaim(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	_, reserved, err := store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)

	require.NoError(t, store.Release(ctx, "fp-1"))

	_, reserved, err = store.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.True(t, reserved, "released claim must be claimable by a retry")
}

func TestIdempotencyStore_StaleReleaseKeepsNewClaim(t *testing.T) {
	client, mr := newTestRedisClient(t)
	first := NewIdempotencyStore(client, 15*time.Minute)
	second := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	_, reserved, err := first.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)

	// The first instance's claim expires and a second instance takes over.
	mr.FastForward(16 * time.Minute)
	_, reserved, err = second.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)

	// The first instance's late release must not evict the new claim.
	require.NoError(t, first.Release(ctx, "fp-1"))
	_, reserved, err = first.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, reserved, "stale release removed another instance's claim")
}

func TestIdempotencyStore_StaleReleaseKeepsStoredOutcome(t *testing.T) {
	client, mr := newTestRedisClient(t)
	first := NewIdempotencyStore(client, 15*time.Minute)
	second := NewIdempotencyStore(client, 15*time.Minute)
	ctx := context.Background()

	_, reserved, err := first.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)

	mr.FastForward(16 * time.Minute)
	_, reserved, err = second.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, reserved)
	require.NoError(t, second.Store(ctx, "fp-1", "tx-456"))

	require.NoError(t, first.Release(ctx, "fp-1"))

	existing, reserved, err := second.CheckAndReserve(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "tx-456", existing, "stale release erased the recorded outcome")
}
