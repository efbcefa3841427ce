package redis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const rateLimitPrefix = "rate_limit"

// RateLimiter counts hits per key in fixed windows that start on the first hit.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow records one hit on key and reports whether it is within limit for the
// current window. A non-positive limit disables the check.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	n, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("rate limit incr %s: %w", key, err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			// a counter without a TTL would block the key forever
			_ = r.client.Del(ctx, key)
			return false, fmt.Errorf("rate limit expire %s: %w", key, err)
		}
	}
	return n <= int64(limit), nil
}

// ActivationKey scopes activation attempts to one tenant.
func ActivationKey(tenantID string) string {
	return fmt.Sprintf("%s:activate:%s", rateLimitPrefix, strings.ToLower(strings.TrimSpace(tenantID)))
}
