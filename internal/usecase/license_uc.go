package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/license"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
	"bos-storefront/internal/infra/logging"
)

// Banner is the subscription notice an admin UI shows.
type Banner string

const (
	BannerNone    Banner = "none"
	BannerWarning Banner = "warning"
	BannerExpired Banner = "expired"

	// BannerWarningDays is how close to the end date the warning starts.
	BannerWarningDays = 7
)

// GenerateCodeRequest: nil overrides take the plan duration and the default expiry.
type GenerateCodeRequest struct {
	PlanID             string
	DurationDays       *int
	CodeExpirationDays *int
}

type GeneratedCode struct {
	Code         string
	PlanID       string
	PlanName     string
	DurationDays int
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// CodeView is a stored code plus its derived expiry.
type CodeView struct {
	*model.LicenseCode
	IsExpired bool
}

type SubscriptionView struct {
	ID            string
	PlanID        string
	PlanName      string
	Status        model.SubscriptionStatus
	StartDate     time.Time
	EndDate       time.Time
	DaysRemaining int
	// Extended is set by Activate when time was added to an existing subscription.
	Extended bool
}

type AccessStatus struct {
	Allowed       bool
	Banner        Banner
	DaysRemaining int
	Subscription  *SubscriptionView
}

// LicenseUseCase manages license codes and the subscriptions they unlock.
type LicenseUseCase interface {
	GenerateCode(ctx context.Context, req GenerateCodeRequest) (*GeneratedCode, error)
	ListCodes(ctx context.Context) ([]*CodeView, error)
	Revoke(ctx context.Context, code string) error
	Activate(ctx context.Context, tenantID, code string) (*SubscriptionView, error)
	CreateTrial(ctx context.Context, tenantID string) (*SubscriptionView, error)
	CurrentSubscription(ctx context.Context, tenantID string) (*SubscriptionView, error)
	// CheckAccess derives entitlement from dates only; Status is never consulted.
	CheckAccess(ctx context.Context, tenantID string) (*AccessStatus, error)
	// ExpireOverdue flips stale active rows to expired. Reads never depend on it.
	ExpireOverdue(ctx context.Context) (int, error)
}

// LicenseSettings tunes code generation and trials. Zero values take defaults.
type LicenseSettings struct {
	CodeExpirationDays int
	GenerateAttempts   int
	TrialDays          int
	// ShowCodes logs full license codes (dev only).
	ShowCodes bool
	Now       func() time.Time
}

var _ LicenseUseCase = (*licenseUC)(nil)

type licenseUC struct {
	codes repository.LicenseCodeRepository
	subs  repository.SubscriptionRepository
	plans repository.SubscriptionPlanRepository
	tm    repository.TransactionManager
	gen   *license.Generator
	cfg   LicenseSettings
	log   *zerolog.Logger
}

// NewLicenseUseCase wires the license flows. gen may be nil (crypto/rand).
func NewLicenseUseCase(
	codes repository.LicenseCodeRepository,
	subs repository.SubscriptionRepository,
	plans repository.SubscriptionPlanRepository,
	tm repository.TransactionManager,
	gen *license.Generator,
	cfg LicenseSettings,
	logger *zerolog.Logger,
) LicenseUseCase {
	if gen == nil {
		gen = license.NewGenerator(nil)
	}
	if cfg.CodeExpirationDays <= 0 {
		cfg.CodeExpirationDays = model.DefaultCodeExpirationDays
	}
	if cfg.GenerateAttempts <= 0 {
		cfg.GenerateAttempts = 8
	}
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = model.TrialDurationDays
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	l := logging.OrNop(logger).With().Str("component", "LicenseUC").Logger()
	return &licenseUC{codes: codes, subs: subs, plans: plans, tm: tm, gen: gen, cfg: cfg, log: &l}
}

func (uc *licenseUC) GenerateCode(ctx context.Context, req GenerateCodeRequest) (*GeneratedCode, error) {
	defer logging.TraceDuration(uc.log, "LicenseUC.GenerateCode")()

	if strings.TrimSpace(req.PlanID) == "" {
		return nil, fmt.Errorf("%w: planId is required", domain.ErrInvalidArgument)
	}
	plan, err := uc.findPlan(ctx, repository.NoTX, req.PlanID)
	if err != nil {
		return nil, err
	}

	duration := plan.DurationDays
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, fmt.Errorf("%w: durationDays must be positive", domain.ErrInvalidArgument)
		}
		duration = *req.DurationDays
	}
	expiration := uc.cfg.CodeExpirationDays
	if req.CodeExpirationDays != nil {
		if *req.CodeExpirationDays <= 0 {
			return nil, fmt.Errorf("%w: codeExpirationDays must be positive", domain.ErrInvalidArgument)
		}
		expiration = *req.CodeExpirationDays
	}

	for attempt := 1; attempt <= uc.cfg.GenerateAttempts; attempt++ {
		raw, err := uc.gen.Generate(plan.ID)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		code, err := model.NewLicenseCode(raw, plan.ID, duration, expiration, uc.cfg.Now())
		if err != nil {
			return nil, err
		}
		err = uc.codes.Insert(ctx, repository.NoTX, code)
		if errors.Is(err, domain.ErrCodeCollision) {
			uc.log.Warn().Int("attempt", attempt).Msg("license code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert license code: %w", err)
		}

		logging.With(ctx, uc.log).Info().
			Str("plan_id", plan.ID).
			Str("code", logging.Redact(code.Code, uc.cfg.ShowCodes)).
			Int("duration_days", duration).
			Msg("license code generated")
		return &GeneratedCode{
			Code:         code.Code,
			PlanID:       plan.ID,
			PlanName:     plan.Name,
			DurationDays: code.DurationDays,
			ExpiresAt:    code.ExpiresAt,
			CreatedAt:    code.CreatedAt,
		}, nil
	}
	return nil, fmt.Errorf("%w: no unique license code after %d attempts", domain.ErrOperationFailed, uc.cfg.GenerateAttempts)
}

func (uc *licenseUC) ListCodes(ctx context.Context) ([]*CodeView, error) {
	codes, err := uc.codes.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	now := uc.cfg.Now()
	out := make([]*CodeView, 0, len(codes))
	for _, c := range codes {
		out = append(out, &CodeView{LicenseCode: c, IsExpired: c.IsExpired(now)})
	}
	return out, nil
}

// Revoke deletes an unused code, expired or not.
func (uc *licenseUC) Revoke(ctx context.Context, code string) error {
	defer logging.TraceDuration(uc.log, "LicenseUC.Revoke")()

	return uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		lc, err := uc.codes.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := lc.CheckRevocable(); err != nil {
			return err
		}
		if err := uc.codes.Delete(ctx, tx, lc.Code); err != nil {
			return err
		}
		logging.With(ctx, uc.log).Info().Str("code", logging.Redact(lc.Code, uc.cfg.ShowCodes)).Msg("license code revoked")
		return nil
	})
}

// Activate redeems code for tenantID. The code row lock and the tenant advisory
// lock make concurrent redemptions of one code fail with ErrCodeAlreadyUsed.
func (uc *licenseUC) Activate(ctx context.Context, tenantID, code string) (*SubscriptionView, error) {
	defer logging.TraceDuration(uc.log, "LicenseUC.Activate")()

	tenantID = strings.TrimSpace(tenantID)
	code = strings.TrimSpace(code)
	if tenantID == "" || code == "" {
		return nil, fmt.Errorf("%w: tenant and license code are required", domain.ErrInvalidArgument)
	}

	var view *SubscriptionView
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		lc, err := uc.codes.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		now := uc.cfg.Now()
		if err := lc.CheckActivatable(now); err != nil {
			return err
		}
		plan, err := uc.findPlan(ctx, tx, lc.PlanID)
		if err != nil {
			return err
		}

		if err := uc.subs.LockTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		sub, err := uc.subs.FindActiveByTenant(ctx, tx, tenantID, now)
		extended := err == nil
		switch {
		case extended:
			sub.Extend(lc.DurationDays, now)
		case domain.IsNotFound(err):
			sub, err = model.NewSubscription(tenantID, plan, lc.DurationDays, &lc.Code, now)
			if err != nil {
				return err
			}
		default:
			return err
		}
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}

		lc.MarkUsed(tenantID, now)
		if err := uc.codes.Save(ctx, tx, lc); err != nil {
			return err
		}

		view = newSubscriptionView(sub, plan.Name, now)
		view.Extended = extended
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.With(logging.WithTenantID(ctx, tenantID), uc.log).Info().
		Str("subscription_id", view.ID).
		Bool("extended", view.Extended).
		Time("end_date", view.EndDate).
		Msg("license activated")
	return view, nil
}

// CreateTrial starts the one-time trial; any previous subscription blocks it and
// the trial plan must exist.
func (uc *licenseUC) CreateTrial(ctx context.Context, tenantID string) (*SubscriptionView, error) {
	defer logging.TraceDuration(uc.log, "LicenseUC.CreateTrial")()

	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("%w: tenantId is required", domain.ErrInvalidArgument)
	}

	var view *SubscriptionView
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.subs.LockTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		n, err := uc.subs.CountByTenant(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrSubscriptionExists
		}
		plan, err := uc.findPlan(ctx, tx, model.TrialPlanID)
		if err != nil {
			return fmt.Errorf("trial plan: %w", err)
		}

		now := uc.cfg.Now()
		sub, err := model.NewTrialSubscription(tenantID, uc.cfg.TrialDays, now)
		if err != nil {
			return err
		}
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		view = newSubscriptionView(sub, plan.Name, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.With(logging.WithTenantID(ctx, tenantID), uc.log).Info().Time("end_date", view.EndDate).Msg("trial created")
	return view, nil
}

func (uc *licenseUC) CurrentSubscription(ctx context.Context, tenantID string) (*SubscriptionView, error) {
	sub, err := uc.subs.FindCurrentByTenant(ctx, repository.NoTX, tenantID)
	if err != nil {
		return nil, err
	}
	return newSubscriptionView(sub, uc.planName(ctx, repository.NoTX, sub.PlanID, "Unknown"), uc.cfg.Now()), nil
}

func (uc *licenseUC) CheckAccess(ctx context.Context, tenantID string) (*AccessStatus, error) {
	view, err := uc.CurrentSubscription(ctx, tenantID)
	if errors.Is(err, domain.ErrNoSubscription) {
		return &AccessStatus{Allowed: false, Banner: BannerExpired}, nil
	}
	if err != nil {
		return nil, err
	}
	now := uc.cfg.Now()
	st := &AccessStatus{
		Allowed:       !model.IsExpired(view.EndDate, now),
		DaysRemaining: view.DaysRemaining,
		Subscription:  view,
	}
	switch {
	case view.DaysRemaining <= 0:
		st.Banner = BannerExpired
	case view.DaysRemaining <= BannerWarningDays:
		st.Banner = BannerWarning
	default:
		st.Banner = BannerNone
	}
	return st, nil
}

func (uc *licenseUC) ExpireOverdue(ctx context.Context) (int, error) {
	defer logging.TraceDuration(uc.log, "LicenseUC.ExpireOverdue")()
	return uc.subs.ExpireOverdue(ctx, repository.NoTX, uc.cfg.Now())
}

func (uc *licenseUC) findPlan(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	plan, err := uc.plans.FindByID(ctx, tx, id)
	if domain.IsNotFound(err) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (uc *licenseUC) planName(ctx context.Context, tx repository.Tx, id, fallback string) string {
	plan, err := uc.plans.FindByID(ctx, tx, id)
	if err != nil || plan == nil {
		return fallback
	}
	return plan.Name
}

func newSubscriptionView(sub *model.Subscription, planName string, now time.Time) *SubscriptionView {
	return &SubscriptionView{
		ID:            sub.ID,
		PlanID:        sub.PlanID,
		PlanName:      planName,
		Status:        sub.Status,
		StartDate:     sub.StartDate,
		EndDate:       sub.EndDate,
		DaysRemaining: sub.DaysRemaining(now),
	}
}
