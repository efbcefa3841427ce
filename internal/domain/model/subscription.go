package model

import (
	"time"

	"github.com/google/uuid"

	"bos-storefront/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
)

const (
	TrialDurationDays = 14
	TrialMaxUsers     = 1
)

// TrialFeatures is what a trial subscription unlocks.
var TrialFeatures = []string{"basic"}

// Subscription is a tenant's entitlement window. Only the dates are authoritative
// for expiry; Status is bookkeeping for administrative transitions.
type Subscription struct {
	ID          string
	TenantID    string
	PlanID      string
	Status      SubscriptionStatus
	LicenseCode *string
	StartDate   time.Time
	EndDate     time.Time
	MaxUsers    int
	Features    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSubscription starts an active subscription for plan lasting durationDays from now.
func NewSubscription(tenantID string, plan *SubscriptionPlan, durationDays int, licenseCode *string, now time.Time) (*Subscription, error) {
	if tenantID == "" || plan.IsZero() || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	features := make([]string, len(plan.Features))
	copy(features, plan.Features)
	return &Subscription{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		PlanID:      plan.ID,
		Status:      SubscriptionStatusActive,
		LicenseCode: licenseCode,
		StartDate:   now,
		EndDate:     now.Add(days(durationDays)),
		MaxUsers:    plan.MaxUsers,
		Features:    features,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewTrialSubscription builds the one-time trial; it bypasses license codes.
// durationDays <= 0 falls back to TrialDurationDays.
func NewTrialSubscription(tenantID string, durationDays int, now time.Time) (*Subscription, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if durationDays <= 0 {
		durationDays = TrialDurationDays
	}
	features := make([]string, len(TrialFeatures))
	copy(features, TrialFeatures)
	return &Subscription{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		PlanID:    TrialPlanID,
		Status:    SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.Add(days(durationDays)),
		MaxUsers:  TrialMaxUsers,
		Features:  features,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Extend pushes EndDate out by n days. Plan, seats and features are left untouched.
func (s *Subscription) Extend(n int, now time.Time) {
	s.EndDate = s.EndDate.Add(days(n))
	s.UpdatedAt = now
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return IsExpired(s.EndDate, now)
}

func (s *Subscription) DaysRemaining(now time.Time) int {
	return DaysRemaining(s.EndDate, now)
}

// Current picks the subscription with the latest EndDate, ignoring status.
// Ties keep the first one seen.
func Current(subs []*Subscription) *Subscription {
	var cur *Subscription
	for _, s := range subs {
		if s == nil {
			continue
		}
		if cur == nil || s.EndDate.After(cur.EndDate) {
			cur = s
		}
	}
	return cur
}
