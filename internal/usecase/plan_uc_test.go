//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/usecase"
)

func TestPlanUseCase(t *testing.T) {
	ctx := context.Background()
	repo := NewMockPlanRepo()
	uc := usecase.NewPlanUseCase(repo, testLogger())

	// --- Create ---
	plan, err := uc.Create(ctx, usecase.CreatePlanInput{
		ID: " Pro ", Name: "Pro", Price: decimal.RequireFromString("15000.00"),
		DurationDays: 30, MaxUsers: 5, Features: []string{"orders"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if plan.ID != "pro" || !plan.IsActive {
		t.Fatalf("Create: got %+v", plan)
	}

	// --- Duplicate ---
	_, err = uc.Create(ctx, usecase.CreatePlanInput{ID: "pro", Name: "Pro 2", DurationDays: 30, MaxUsers: 1})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate: expected ErrAlreadyExists, got %v", err)
	}

	// --- Validation ---
	_, err = uc.Create(ctx, usecase.CreatePlanInput{ID: "free", Name: "Free", DurationDays: 0, MaxUsers: 1})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("invalid: expected ErrInvalidArgument, got %v", err)
	}
	_, err = uc.Create(ctx, usecase.CreatePlanInput{ID: "neg", Name: "Neg", Price: decimal.NewFromInt(-1), DurationDays: 30, MaxUsers: 1})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}

	// --- Get ---
	got, err := uc.Get(ctx, "pro")
	if err != nil || got.Name != "Pro" {
		t.Fatalf("Get: %+v, %v", got, err)
	}
	if _, err := uc.Get(ctx, "gold"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("Get missing: expected ErrPlanNotFound, got %v", err)
	}

	// --- List ---
	list, err := uc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %d, %v", len(list), err)
	}
}
