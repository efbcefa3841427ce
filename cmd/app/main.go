// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bos-storefront/internal/config"
	"bos-storefront/internal/domain/license"
	"bos-storefront/internal/infra/api"
	pg "bos-storefront/internal/infra/db/postgres"
	"bos-storefront/internal/infra/i18n"
	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/infra/metrics"
	red "bos-storefront/internal/infra/redis"
	"bos-storefront/internal/infra/sched"
	"bos-storefront/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled: license codes are logged in full")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second, logger)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	txm := pg.NewTxManager(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPostgresPlanRepo(pool), redisClient, cfg.Redis.TTL, logger)
	codeRepo := pg.NewLicenseCodeRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	catalogRepo := pg.NewCatalogRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(planRepo, logger)
	licenseUC := usecase.NewLicenseUseCase(codeRepo, subRepo, planRepo, txm, license.NewGenerator(nil), usecase.LicenseSettings{
		CodeExpirationDays: cfg.License.CodeExpirationDays,
		GenerateAttempts:   cfg.License.GenerateAttempts,
		TrialDays:          cfg.License.TrialDays,
		ShowCodes:          cfg.Runtime.Dev,
	}, logger)
	orderUC := usecase.NewOrderUseCase(catalogRepo, orderRepo, cfg.Store.Currency, logger)

	// ---- HTTP ----
	msgs, err := i18n.NewBundle(i18n.LocalesFS, cfg.Store.Languages...)
	if err != nil {
		logger.Fatal().Err(err).Msg("locales")
	}
	auth := api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := api.NewServer(licenseUC, planUC, orderUC, auth, rateLimiter, api.Options{
		RequestTimeout:   cfg.HTTP.RequestTimeout,
		ActivationLimit:  cfg.License.ActivationRateLimit,
		ActivationWindow: cfg.License.ActivationWindow,
		Currency:         cfg.Store.Currency,
		Messages:         msgs,
	}, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Expiry worker ----
	if !cfg.Scheduler.Disabled {
		worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, licenseUC, locker, logger)
		go func() { _ = worker.Run(ctx) }()
	}

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
