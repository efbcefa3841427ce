package repository

import (
	"context"
	"time"

	"bos-storefront/internal/domain/model"
)

// SubscriptionRepository is the port for tenant subscriptions.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	// FindActiveByTenant returns the latest-ending subscription with status
	// active and endDate after now, or domain.ErrNoSubscription.
	FindActiveByTenant(ctx context.Context, tx Tx, tenantID string, now time.Time) (*model.Subscription, error)
	// FindCurrentByTenant returns the max-endDate subscription regardless of status.
	FindCurrentByTenant(ctx context.Context, tx Tx, tenantID string) (*model.Subscription, error)
	CountByTenant(ctx context.Context, tx Tx, tenantID string) (int, error)
	// ExpireOverdue flips active subscriptions that ended before now to expired.
	ExpireOverdue(ctx context.Context, tx Tx, now time.Time) (int, error)
	// LockTenant serialises subscription writes for one tenant until tx ends.
	LockTenant(ctx context.Context, tx Tx, tenantID string) error
}
