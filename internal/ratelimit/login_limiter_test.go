package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, limit, window, zap.NewNop()), mr
}

func TestLoginLimiterEnforcesLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ctx, "alice") {
			t.Fatalf("attempt %d unexpectedly blocked", i+1)
		}
	}
	if limiter.Allow(ctx, "alice") {
		t.Fatal("fourth attempt should be blocked")
	}

	// Other accounts are unaffected.
	if !limiter.Allow(ctx, "bob") {
		t.Fatal("other account should not be blocked")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if !limiter.Allow(ctx, "alice") {
		t.Fatal("first attempt blocked")
	}
	if limiter.Allow(ctx, "alice") {
		t.Fatal("second attempt should be blocked")
	}

	mr.FastForward(time.Minute + time.Second)

	if !limiter.Allow(ctx, "alice") {
		t.Fatal("attempt after window should be allowed")
	}
}

func TestLoginLimiterReset(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	limiter.Allow(ctx, "alice")
	if limiter.Allow(ctx, "alice") {
		t.Fatal("second attempt should be blocked")
	}

	limiter.Reset(ctx, "alice")

	if !limiter.Allow(ctx, "alice") {
		t.Fatal("attempt after reset should be allowed")
	}
}

func TestLoginLimiterFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	if !limiter.Allow(context.Background(), "alice") {
		t.Fatal("limiter should fail open when redis is unreachable")
	}
}

func TestLoginLimiterDisabled(t *testing.T) {
	var limiter *LoginLimiter
	if !limiter.Allow(context.Background(), "alice") {
		t.Fatal("nil limiter should allow everything")
	}

	limiter = NewLoginLimiter(nil, 0, time.Minute, zap.NewNop())
	if !limiter.Allow(context.Background(), "alice") {
		t.Fatal("disabled limiter should allow everything")
	}
}
