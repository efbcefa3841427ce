package model

import (
	"time"

	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain"
)

// TrialPlanID is the reference plan granted on registration.
const TrialPlanID = "trial"

// SubscriptionPlan is immutable reference data: 'trial', 'pro', 'enterprise'.
type SubscriptionPlan struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	DurationDays int
	MaxUsers     int
	Features     []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *SubscriptionPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewSubscriptionPlan validates and constructs a plan.
func NewSubscriptionPlan(id, name, description string, price decimal.Decimal, durationDays, maxUsers int, features []string) (*SubscriptionPlan, error) {
	if id == "" || name == "" || durationDays <= 0 || maxUsers <= 0 || price.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	if features == nil {
		features = []string{}
	}
	now := time.Now().UTC()
	return &SubscriptionPlan{
		ID:           id,
		Name:         name,
		Description:  description,
		Price:        price,
		DurationDays: durationDays,
		MaxUsers:     maxUsers,
		Features:     features,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
