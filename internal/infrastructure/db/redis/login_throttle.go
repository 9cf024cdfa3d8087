package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockWindow  = 15 * time.Minute
)

// LoginThrottle counts failed password attempts per email in Redis.
// Key format: login:fail:<email>
//
// The counter expires lockWindow after the first failure, so an email is
// locked for at most lockWindow once maxAttempts failures pile up.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	lockWindow  time.Duration
}

// NewLoginThrottle creates a LoginThrottle. Non-positive arguments fall back
// to 5 attempts and a 15 minute window.
func NewLoginThrottle(client *redis.Client, maxAttempts int, lockWindow time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockWindow <= 0 {
		lockWindow = defaultLockWindow
	}
	return &LoginThrottle{
		client:      client,
		maxAttempts: int64(maxAttempts),
		lockWindow:  lockWindow,
	}
}

// Locked reports whether email has reached the failure limit.
func (t *LoginThrottle) Locked(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.maxAttempts, nil
}

// RegisterFailure increments the failure counter of email.
func (t *LoginThrottle) RegisterFailure(ctx context.Context, email string) error {
	key := t.key(email)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.lockWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter of email after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(email string) string {
	return "login:fail:" + email
}
