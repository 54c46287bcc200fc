package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed admin logins per email inside a sliding window
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

// RedisLoginLimiter implements LoginLimiter with INCR + EXPIRE. A nil client never blocks.
type RedisLoginLimiter struct {
	client      *redis.Client
	prefix      string
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a limiter allowing maxAttempts failures per window
func NewLoginLimiter(client *redis.Client, prefix string, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		prefix:      prefix,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func (l *RedisLoginLimiter) key(email string) string {
	return fmt.Sprintf("%slogin:fail:%s", l.prefix, email)
}

// Blocked reports whether the email has used up its attempts
func (l *RedisLoginLimiter) Blocked(ctx context.Context, email string) (bool, error) {
	if l.client == nil || l.maxAttempts <= 0 {
		return false, nil
	}

	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read login attempts: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure bumps the counter and returns the new count
func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, email string) (int64, error) {
	if l.client == nil {
		return 0, nil
	}

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, l.key(email))
	pipe.Expire(ctx, l.key(email), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record login attempt: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the counter after a successful login
func (l *RedisLoginLimiter) Reset(ctx context.Context, email string) error {
	if l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}
