package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) (*miniredis.Miniredis, *Limiter) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, New(client, cfg)
}

func TestLoginBudget(t *testing.T) {
	_, l := newTestLimiter(t, Config{
		Prefix:                "test",
		MaxLoginAttempts:      3,
		LoginCooldownDuration: time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.CheckLogin(ctx, "alice", ""))
		require.NoError(t, l.IncrementLogin(ctx, "alice", ""))
	}

	require.NoError(t, l.CheckLogin(ctx, "alice", ""))
	require.ErrorIs(t, l.IncrementLogin(ctx, "alice", ""), ErrRateLimited)
	require.ErrorIs(t, l.CheckLogin(ctx, "alice", ""), ErrRateLimited)

	// Other identifiers are unaffected.
	require.NoError(t, l.CheckLogin(ctx, "bob", ""))
}

func TestLoginWindowExpires(t *testing.T) {
	mr, l := newTestLimiter(t, Config{
		Prefix:                "test",
		MaxLoginAttempts:      1,
		LoginCooldownDuration: time.Minute,
	})
	ctx := context.Background()

	require.NoError(t, l.IncrementLogin(ctx, "alice", ""))
	require.ErrorIs(t, l.IncrementLogin(ctx, "alice", ""), ErrRateLimited)
	require.Equal(t, time.Minute, mr.TTL("test:rl:login:alice"))

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, l.CheckLogin(ctx, "alice", ""))
}

func TestResetLogin(t *testing.T) {
	_, l := newTestLimiter(t, Config{
		Prefix:                "test",
		EnableIPThrottle:      true,
		MaxLoginAttempts:      5,
		LoginCooldownDuration: time.Minute,
	})
	ctx := context.Background()

	require.NoError(t, l.IncrementLogin(ctx, "alice", "10.0.0.1"))
	require.NoError(t, l.IncrementLogin(ctx, "alice", "10.0.0.1"))

	n, err := l.GetLoginAttempts(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, l.ResetLogin(ctx, "alice", "10.0.0.1"))

	n, err = l.GetLoginAttempts(ctx, "alice")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIPThrottleSpansIdentifiers(t *testing.T) {
	_, l := newTestLimiter(t, Config{
		Prefix:                "test",
		EnableIPThrottle:      true,
		MaxLoginAttempts:      2,
		LoginCooldownDuration: time.Minute,
	})
	ctx := context.Background()

	require.NoError(t, l.IncrementLogin(ctx, "a", "10.0.0.1"))
	require.NoError(t, l.IncrementLogin(ctx, "b", "10.0.0.1"))
	require.ErrorIs(t, l.IncrementLogin(ctx, "c", "10.0.0.1"), ErrRateLimited)

	require.ErrorIs(t, l.CheckLogin(ctx, "d", "10.0.0.1"), ErrRateLimited)
	require.NoError(t, l.CheckLogin(ctx, "d", "10.0.0.2"))
}

func TestRedisDownIsReported(t *testing.T) {
	mr, l := newTestLimiter(t, Config{
		Prefix:                "test",
		MaxLoginAttempts:      5,
		LoginCooldownDuration: time.Minute,
	})
	mr.Close()

	err := l.CheckLogin(context.Background(), "alice", "")
	require.True(t, errors.Is(err, ErrRedisUnavailable), "got %v", err)
}
