package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
	"bos-storefront/internal/infra/logging"
)

type CreatePlanInput struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	DurationDays int
	MaxUsers     int
	Features     []string
}

// PlanUseCase manages subscription plans.
type PlanUseCase interface {
	// Create rejects an existing id with domain.ErrAlreadyExists.
	Create(ctx context.Context, in CreatePlanInput) (*model.SubscriptionPlan, error)
	Get(ctx context.Context, id string) (*model.SubscriptionPlan, error)
	List(ctx context.Context) ([]*model.SubscriptionPlan, error)
}

var _ PlanUseCase = (*planUC)(nil)

type planUC struct {
	repo repository.SubscriptionPlanRepository
	log  *zerolog.Logger
}

// NewPlanUseCase constructs a PlanUseCase.
func NewPlanUseCase(repo repository.SubscriptionPlanRepository, logger *zerolog.Logger) PlanUseCase {
	return &planUC{repo: repo, log: logging.OrNop(logger)}
}

func (uc *planUC) Create(ctx context.Context, in CreatePlanInput) (*model.SubscriptionPlan, error) {
	id := strings.ToLower(strings.TrimSpace(in.ID))
	plan, err := model.NewSubscriptionPlan(id, strings.TrimSpace(in.Name), in.Description, in.Price, in.DurationDays, in.MaxUsers, in.Features)
	if err != nil {
		return nil, err
	}
	if existing, err := uc.repo.FindByID(ctx, repository.NoTX, id); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	if err := uc.repo.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	uc.log.Info().Str("plan_id", plan.ID).Msg("plan created")
	return plan, nil
}

// Get retrieves a plan by ID.
func (uc *planUC) Get(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	plan, err := uc.repo.FindByID(ctx, repository.NoTX, id)
	if domain.IsNotFound(err) {
		return nil, domain.ErrPlanNotFound
	}
	return plan, err
}

// List returns all plans.
func (uc *planUC) List(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return uc.repo.ListAll(ctx, repository.NoTX)
}
