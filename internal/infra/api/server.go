package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/infra/i18n"
	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/usecase"
)

// Limiter is satisfied by the redis fixed-window rate limiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Options struct {
	RequestTimeout   time.Duration
	ActivationLimit  int
	ActivationWindow time.Duration
	Currency         string
	// Messages localizes the access banner; nil leaves the message empty.
	Messages *i18n.Bundle
}

type Server struct {
	licenseUC usecase.LicenseUseCase
	planUC    usecase.PlanUseCase
	orderUC   usecase.OrderUseCase
	auth      *AuthManager
	limiter   Limiter
	opts      Options
	log       *zerolog.Logger
}

// NewServer builds the HTTP adapter. limiter may be nil to disable activation throttling.
func NewServer(
	licenseUC usecase.LicenseUseCase,
	planUC usecase.PlanUseCase,
	orderUC usecase.OrderUseCase,
	auth *AuthManager,
	limiter Limiter,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if opts.ActivationLimit <= 0 {
		opts.ActivationLimit = 10
	}
	if opts.ActivationWindow <= 0 {
		opts.ActivationWindow = time.Minute
	}
	if opts.Currency == "" {
		opts.Currency = model.DefaultCurrency
	}
	return &Server{
		licenseUC: licenseUC,
		planUC:    planUC,
		orderUC:   orderUC,
		auth:      auth,
		limiter:   limiter,
		opts:      opts,
		log:       logging.OrNop(logger),
	}
}

// Router mounts every route on a fresh chi mux.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(s.opts.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/license", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireRole(RoleSuperAdmin))
			r.Get("/plans", s.listPlans)
			r.Post("/plans", s.createPlan)
			r.Post("/generate-code", s.generateCode)
			r.Get("/codes", s.listCodes)
			r.Delete("/codes/{code}", s.revokeCode)
			r.Post("/create-trial/{tenantId}", s.createTrial)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireRole(RoleAdmin))
			r.Post("/activate", s.activate)
			r.Get("/subscription", s.currentSubscription)
			r.Get("/access", s.checkAccess)
		})
	})

	r.Route("/api/storefront/{tenantId}", func(r chi.Router) {
		r.Post("/quote", s.quote)
		r.Post("/orders", s.placeOrder)
	})
	return r
}

// fail writes the mapped error and logs anything that is not a client mistake.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.With(r.Context(), s.log).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, status, msg)
}
