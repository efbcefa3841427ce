package model

import (
	"time"

	"bos-storefront/internal/domain"
)

// DefaultCodeExpirationDays is how long an unused code stays redeemable.
const DefaultCodeExpirationDays = 90

// LicenseCode is a single-use token that activates or extends a tenant subscription.
// The code string itself is the primary key.
type LicenseCode struct {
	Code           string
	PlanID         string
	DurationDays   int
	IsUsed         bool
	UsedByTenantID *string    // Pointer to allow for NULL
	UsedAt         *time.Time // Pointer to allow for NULL
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// NewLicenseCode validates and constructs an unused code.
func NewLicenseCode(code, planID string, durationDays, expirationDays int, now time.Time) (*LicenseCode, error) {
	if code == "" || planID == "" || durationDays <= 0 || expirationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &LicenseCode{
		Code:         code,
		PlanID:       planID,
		DurationDays: durationDays,
		ExpiresAt:    now.Add(days(expirationDays)),
		CreatedAt:    now,
	}, nil
}

// IsExpired is derived, never stored.
func (c *LicenseCode) IsExpired(now time.Time) bool {
	return IsExpired(c.ExpiresAt, now)
}

// CheckActivatable reports why the code cannot be redeemed, if it cannot.
// Used wins over expired.
func (c *LicenseCode) CheckActivatable(now time.Time) error {
	if c.IsUsed {
		return domain.ErrCodeAlreadyUsed
	}
	if c.IsExpired(now) {
		return domain.ErrCodeExpired
	}
	return nil
}

// CheckRevocable only rejects consumed codes; expired-but-unused codes can still be deleted.
func (c *LicenseCode) CheckRevocable() error {
	if c.IsUsed {
		return domain.ErrCodeAlreadyUsed
	}
	return nil
}

// MarkUsed moves the code to its terminal state.
func (c *LicenseCode) MarkUsed(tenantID string, now time.Time) {
	c.IsUsed = true
	c.UsedByTenantID = &tenantID
	c.UsedAt = &now
}
