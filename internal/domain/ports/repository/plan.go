package repository

import (
	"context"

	"bos-storefront/internal/domain/model"
)

// SubscriptionPlanRepository stores the plan catalogue license codes point at.
type SubscriptionPlanRepository interface {
	// Save inserts or replaces the plan keyed by its id.
	Save(ctx context.Context, tx Tx, plan *model.SubscriptionPlan) error
	// FindByID returns domain.ErrNotFound for an unknown id.
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionPlan, error)
	// ListAll includes inactive plans, cheapest first.
	ListAll(ctx context.Context, tx Tx) ([]*model.SubscriptionPlan, error)
}
