package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/infra/metrics"
	red "bos-storefront/internal/infra/redis"
	"bos-storefront/internal/usecase"
)

type planDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"durationDays"`
	MaxUsers     int             `json:"maxUsers"`
	Features     []string        `json:"features"`
	IsActive     bool            `json:"isActive"`
}

func toPlanDTO(p *model.SubscriptionPlan) planDTO {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return planDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		MaxUsers:     p.MaxUsers,
		Features:     features,
		IsActive:     p.IsActive,
	}
}

type generatedCodeDTO struct {
	Code         string    `json:"code"`
	PlanID       string    `json:"planId"`
	PlanName     string    `json:"planName"`
	DurationDays int       `json:"durationDays"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

type codeDTO struct {
	Code           string     `json:"code"`
	PlanID         string     `json:"planId"`
	DurationDays   int        `json:"durationDays"`
	IsUsed         bool       `json:"isUsed"`
	UsedByTenantID *string    `json:"usedByTenantId,omitempty"`
	UsedAt         *time.Time `json:"usedAt,omitempty"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	IsExpired      bool       `json:"isExpired"`
}

type subscriptionDTO struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"planId"`
	PlanName      string    `json:"planName"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	DaysRemaining int       `json:"daysRemaining"`
	Extended      bool      `json:"extended"`
}

func toSubscriptionDTO(v *usecase.SubscriptionView) *subscriptionDTO {
	if v == nil {
		return nil
	}
	return &subscriptionDTO{
		ID:            v.ID,
		PlanID:        v.PlanID,
		PlanName:      v.PlanName,
		Status:        string(v.Status),
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		DaysRemaining: v.DaysRemaining,
		Extended:      v.Extended,
	}
}

type accessDTO struct {
	Allowed       bool             `json:"allowed"`
	Banner        string           `json:"banner"`
	Message       string           `json:"message"`
	DaysRemaining int              `json:"daysRemaining"`
	Subscription  *subscriptionDTO `json:"subscription"`
}

type listResponse struct {
	Data interface{} `json:"data"`
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]planDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanDTO(p))
	}
	writeJSON(w, http.StatusOK, listResponse{Data: out})
}

type planCreateRequest struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"durationDays"`
	MaxUsers     int             `json:"maxUsers"`
	Features     []string        `json:"features"`
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req planCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := s.planUC.Create(r.Context(), usecase.CreatePlanInput{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		MaxUsers:     req.MaxUsers,
		Features:     req.Features,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanDTO(plan))
}

type generateCodeRequest struct {
	PlanID             string `json:"planId"`
	DurationDays       *int   `json:"durationDays"`
	CodeExpirationDays *int   `json:"codeExpirationDays"`
}

func (s *Server) generateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	gc, err := s.licenseUC.GenerateCode(r.Context(), usecase.GenerateCodeRequest{
		PlanID:             req.PlanID,
		DurationDays:       req.DurationDays,
		CodeExpirationDays: req.CodeExpirationDays,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.IncCodeGenerated(gc.PlanID)
	writeJSON(w, http.StatusCreated, generatedCodeDTO{
		Code:         gc.Code,
		PlanID:       gc.PlanID,
		PlanName:     gc.PlanName,
		DurationDays: gc.DurationDays,
		ExpiresAt:    gc.ExpiresAt,
		CreatedAt:    gc.CreatedAt,
	})
}

func (s *Server) listCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := s.licenseUC.ListCodes(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]codeDTO, 0, len(codes))
	for _, c := range codes {
		out = append(out, codeDTO{
			Code:           c.Code,
			PlanID:         c.PlanID,
			DurationDays:   c.DurationDays,
			IsUsed:         c.IsUsed,
			UsedByTenantID: c.UsedByTenantID,
			UsedAt:         c.UsedAt,
			ExpiresAt:      c.ExpiresAt,
			CreatedAt:      c.CreatedAt,
			IsExpired:      c.IsExpired,
		})
	}
	writeJSON(w, http.StatusOK, listResponse{Data: out})
}

func (s *Server) revokeCode(w http.ResponseWriter, r *http.Request) {
	if err := s.licenseUC.Revoke(r.Context(), chi.URLParam(r, "code")); err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.IncCodeRevoked()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createTrial(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantId")
	view, err := s.licenseUC.CreateTrial(logging.WithTenantID(r.Context(), tenantID), tenantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metrics.IncTrialCreated()
	writeJSON(w, http.StatusCreated, toSubscriptionDTO(view))
}

type activateRequest struct {
	LicenseCode string `json:"licenseCode"`
}

// activate takes the tenant from the token, never from the body.
func (s *Server) activate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := claimsFrom(ctx).TenantID

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, red.ActivationKey(tenantID), s.opts.ActivationLimit, s.opts.ActivationWindow)
		if err != nil {
			// fail open on limiter errors
			logging.With(ctx, s.log).Warn().Err(err).Msg("activation rate limiter unavailable")
		} else if !ok {
			metrics.IncActivation("rate_limited")
			s.fail(w, r, domain.ErrRateLimited)
			return
		}
	}

	var req activateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := s.licenseUC.Activate(ctx, tenantID, req.LicenseCode)
	metrics.IncActivation(activationResult(err))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionDTO(view))
}

func activationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return "already_used"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	default:
		return "error"
	}
}

func (s *Server) currentSubscription(w http.ResponseWriter, r *http.Request) {
	view, err := s.licenseUC.CurrentSubscription(r.Context(), claimsFrom(r.Context()).TenantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionDTO(view))
}

func (s *Server) checkAccess(w http.ResponseWriter, r *http.Request) {
	st, err := s.licenseUC.CheckAccess(r.Context(), claimsFrom(r.Context()).TenantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accessDTO{
		Allowed:       st.Allowed,
		Banner:        string(st.Banner),
		Message:       s.bannerMessage(r, st),
		DaysRemaining: st.DaysRemaining,
		Subscription:  toSubscriptionDTO(st.Subscription),
	})
}

func (s *Server) bannerMessage(r *http.Request, st *usecase.AccessStatus) string {
	if s.opts.Messages == nil {
		return ""
	}
	t := s.opts.Messages.For(r.Header.Get("Accept-Language"))
	switch {
	case st.Banner == usecase.BannerWarning:
		return t.T("banner.warning", st.DaysRemaining)
	case st.Banner == usecase.BannerExpired && st.Subscription == nil:
		return t.T("banner.missing")
	case st.Banner == usecase.BannerExpired:
		return t.T("banner.expired")
	default:
		return t.T("banner.none")
	}
}
