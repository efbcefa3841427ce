package model

import (
	"math"
	"time"
)

// IsExpired is the single expiry predicate shared by license codes, subscriptions
// and the access gate. A deadline equal to now is still valid.
func IsExpired(deadline, now time.Time) bool {
	return now.After(deadline)
}

// DaysRemaining counts whole days left until end, rounding partial days up.
// The result goes negative once end has passed.
func DaysRemaining(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
