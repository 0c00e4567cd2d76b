package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := NewClient(Config{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, "create", limit, window), srv
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 2, time.Minute)
	fixed := time.Date(2024, 3, 1, 12, 0, 30, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	ctx := context.Background()

	d, err := l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC), d.ResetAt)

	d, err = l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestRateLimiter_SubjectsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	d, err := l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_NewWindowResets(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	d, err := l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	now = now.Add(time.Minute)
	d, err = l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_KeysExpire(t *testing.T) {
	l, srv := newTestLimiter(t, 5, time.Minute)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	_, err := l.Allow(context.Background(), "alice@example.com")
	require.NoError(t, err)

	key := l.key("alice@example.com", fixed)
	assert.Equal(t, time.Minute, srv.TTL(key))
}

func TestRateLimiter_ServerDown(t *testing.T) {
	l, srv := newTestLimiter(t, 5, time.Minute)
	srv.Close()

	_, err := l.Allow(context.Background(), "alice@example.com")
	assert.Error(t, err)
}

func TestRateLimiter_Defaults(t *testing.T) {
	l := NewRateLimiter(nil, "create", 0, 0)
	assert.Equal(t, defaultLimit, l.limit)
	assert.Equal(t, defaultWindow, l.window)
}
