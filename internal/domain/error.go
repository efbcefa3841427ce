package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")

	// License codes
	ErrCodeNotFound    = errors.New("license code not found")
	ErrCodeAlreadyUsed = errors.New("license code already used")
	ErrCodeExpired     = errors.New("license code has expired")
	ErrCodeCollision   = errors.New("license code already exists")

	// Plans and subscriptions
	ErrPlanNotFound       = errors.New("plan not found")
	ErrNoSubscription     = errors.New("no subscription found")
	ErrSubscriptionExists = errors.New("tenant already has a subscription")

	// Transport
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("too many attempts")
)

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCodeNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrNoSubscription)
}
