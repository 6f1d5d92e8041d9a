package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "login_attempts:"

// LoginLimiter bounds credential-login attempts per account using a Redis
// fixed-window counter. When Redis is unreachable the limiter fails open:
// token issuance must not depend on the cache being up.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLoginLimiter constructs the limiter. A nil client or non-positive limit
// disables limiting.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow reports whether another login attempt for the username is permitted
// within the current window.
func (l *LoginLimiter) Allow(ctx context.Context, username string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	key := keyPrefix + username
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit)
}

// Reset clears the window for the username, called after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Del(ctx, keyPrefix+username).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}
