package entrytoken

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisGuard(t *testing.T, clock *fakeClock) (*RedisReplayGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisReplayGuard(client, "", clock.Now), mr
}

func TestRedisReplayGuard_MarkAndContains(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	guard, mr := newRedisGuard(t, clock)
	ctx := context.Background()

	used, err := guard.Contains(ctx, "sig")
	require.NoError(t, err)
	assert.False(t, used)

	won, err := guard.MarkConsumed(ctx, "sig", clock.Now().Add(30*time.Second))
	require.NoError(t, err)
	assert.True(t, won)
	assert.True(t, mr.Exists(DefaultReplayKeyPrefix+"sig"))
	assert.Equal(t, 30*time.Second, mr.TTL(DefaultReplayKeyPrefix+"sig"))

	won, err = guard.MarkConsumed(ctx, "sig", clock.Now().Add(30*time.Second))
	require.NoError(t, err)
	assert.False(t, won)

	used, err = guard.Contains(ctx, "sig")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestRedisReplayGuard_KeysExpireWithToken(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	guard, mr := newRedisGuard(t, clock)
	ctx := context.Background()

	_, err := guard.MarkConsumed(ctx, "sig", clock.Now().Add(5*time.Second))
	require.NoError(t, err)

	mr.FastForward(5 * time.Second)

	used, err := guard.Contains(ctx, "sig")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestRedisReplayGuard_SharedBetweenInstances(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	mr := miniredis.RunT(t)
	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = clientA.Close(); _ = clientB.Close() })

	terminalA := NewRedisReplayGuard(clientA, "test:", clock.Now)
	terminalB := NewRedisReplayGuard(clientB, "test:", clock.Now)
	ctx := context.Background()

	won, err := terminalA.MarkConsumed(ctx, "sig", clock.Now().Add(30*time.Second))
	require.NoError(t, err)
	require.True(t, won)

	used, err := terminalB.Contains(ctx, "sig")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestRedisReplayGuard_ErrorsSurface(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	guard, mr := newRedisGuard(t, clock)
	mr.Close()

	_, err := guard.Contains(context.Background(), "sig")
	assert.Error(t, err)
}
