package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bos-storefront/internal/config"
	"bos-storefront/internal/domain"
	"bos-storefront/internal/infra/api"
	pg "bos-storefront/internal/infra/db/postgres"
	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/usecase"
)

// seed creates the reference plans and prints bearer tokens for local testing.
func main() {
	tenant := flag.String("tenant", "demo", "tenant id for the printed admin token")

	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	planUC := usecase.NewPlanUseCase(pg.NewPostgresPlanRepo(pool), logger)

	seed := []usecase.CreatePlanInput{
		{ID: "trial", Name: "Trial", Description: "14 days to try the store", Price: decimal.Zero, DurationDays: 14, MaxUsers: 1, Features: []string{"basic"}},
		{ID: "basic", Name: "Basic", Price: decimal.RequireFromString("2999.00"), DurationDays: 30, MaxUsers: 2, Features: []string{"basic", "orders"}},
		{ID: "pro", Name: "Pro", Price: decimal.RequireFromString("4999.90"), DurationDays: 30, MaxUsers: 5, Features: []string{"basic", "orders", "promotions", "reports"}},
	}
	for _, in := range seed {
		p, err := planUC.Create(ctx, in)
		if errors.Is(err, domain.ErrAlreadyExists) {
			fmt.Printf("exists: %s\n", in.ID)
			continue
		}
		if err != nil {
			logger.Fatal().Err(err).Str("plan_id", in.ID).Msg("create plan")
		}
		fmt.Printf("seeded: %s (days=%d, users=%d, price=%s)\n", p.ID, p.DurationDays, p.MaxUsers, p.Price.StringFixed(2))
	}

	// -tenant was parsed by LoadConfig.
	auth := api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	superTok, err := auth.Mint("seed", api.RoleSuperAdmin, "")
	if err != nil {
		logger.Fatal().Err(err).Msg("mint token")
	}
	adminTok, err := auth.Mint("seed", api.RoleAdmin, *tenant)
	if err != nil {
		logger.Fatal().Err(err).Msg("mint token")
	}
	fmt.Printf("super_admin token: %s\n", superTok)
	fmt.Printf("admin token (%s): %s\n", *tenant, adminTok)
}
