//go:build !integration

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/pricing"
	"bos-storefront/internal/infra/i18n"
	"bos-storefront/internal/usecase"
)

const testSecret = "test-jwt-secret-please-change"

type MockLicenseUC struct {
	GenerateCodeFunc        func(ctx context.Context, req usecase.GenerateCodeRequest) (*usecase.GeneratedCode, error)
	ListCodesFunc           func(ctx context.Context) ([]*usecase.CodeView, error)
	RevokeFunc              func(ctx context.Context, code string) error
	ActivateFunc            func(ctx context.Context, tenantID, code string) (*usecase.SubscriptionView, error)
	CreateTrialFunc         func(ctx context.Context, tenantID string) (*usecase.SubscriptionView, error)
	CurrentSubscriptionFunc func(ctx context.Context, tenantID string) (*usecase.SubscriptionView, error)
	CheckAccessFunc         func(ctx context.Context, tenantID string) (*usecase.AccessStatus, error)
	ExpireOverdueFunc       func(ctx context.Context) (int, error)
}

var _ usecase.LicenseUseCase = (*MockLicenseUC)(nil)

func (m *MockLicenseUC) GenerateCode(ctx context.Context, req usecase.GenerateCodeRequest) (*usecase.GeneratedCode, error) {
	return m.GenerateCodeFunc(ctx, req)
}
func (m *MockLicenseUC) ListCodes(ctx context.Context) ([]*usecase.CodeView, error) {
	return m.ListCodesFunc(ctx)
}
func (m *MockLicenseUC) Revoke(ctx context.Context, code string) error {
	return m.RevokeFunc(ctx, code)
}
func (m *MockLicenseUC) Activate(ctx context.Context, tenantID, code string) (*usecase.SubscriptionView, error) {
	return m.ActivateFunc(ctx, tenantID, code)
}
func (m *MockLicenseUC) CreateTrial(ctx context.Context, tenantID string) (*usecase.SubscriptionView, error) {
	return m.CreateTrialFunc(ctx, tenantID)
}
func (m *MockLicenseUC) CurrentSubscription(ctx context.Context, tenantID string) (*usecase.SubscriptionView, error) {
	return m.CurrentSubscriptionFunc(ctx, tenantID)
}
func (m *MockLicenseUC) CheckAccess(ctx context.Context, tenantID string) (*usecase.AccessStatus, error) {
	return m.CheckAccessFunc(ctx, tenantID)
}
func (m *MockLicenseUC) ExpireOverdue(ctx context.Context) (int, error) {
	return m.ExpireOverdueFunc(ctx)
}

type MockPlanUC struct {
	CreateFunc func(ctx context.Context, in usecase.CreatePlanInput) (*model.SubscriptionPlan, error)
	GetFunc    func(ctx context.Context, id string) (*model.SubscriptionPlan, error)
	ListFunc   func(ctx context.Context) ([]*model.SubscriptionPlan, error)
}

var _ usecase.PlanUseCase = (*MockPlanUC)(nil)

func (m *MockPlanUC) Create(ctx context.Context, in usecase.CreatePlanInput) (*model.SubscriptionPlan, error) {
	return m.CreateFunc(ctx, in)
}
func (m *MockPlanUC) Get(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	return m.GetFunc(ctx, id)
}
func (m *MockPlanUC) List(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return m.ListFunc(ctx)
}

type MockOrderUC struct {
	QuoteFunc      func(ctx context.Context, tenantID string, lines []model.CartLine) (*pricing.CartTotals, error)
	PlaceOrderFunc func(ctx context.Context, tenantID string, req usecase.OrderRequest) (*model.Order, error)
}

var _ usecase.OrderUseCase = (*MockOrderUC)(nil)

func (m *MockOrderUC) Quote(ctx context.Context, tenantID string, lines []model.CartLine) (*pricing.CartTotals, error) {
	return m.QuoteFunc(ctx, tenantID, lines)
}
func (m *MockOrderUC) PlaceOrder(ctx context.Context, tenantID string, req usecase.OrderRequest) (*model.Order, error) {
	return m.PlaceOrderFunc(ctx, tenantID, req)
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return m.AllowFunc(ctx, key, limit, window)
}

// --- helpers ---

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type testDeps struct {
	license *MockLicenseUC
	plans   *MockPlanUC
	orders  *MockOrderUC
	limiter Limiter
}

func newTestRouter(d testDeps) (http.Handler, *AuthManager) {
	if d.license == nil {
		d.license = &MockLicenseUC{}
	}
	if d.plans == nil {
		d.plans = &MockPlanUC{}
	}
	if d.orders == nil {
		d.orders = &MockOrderUC{}
	}
	msgs, err := i18n.NewBundle(i18n.LocalesFS, i18n.DefaultLang, "en")
	if err != nil {
		panic(err)
	}
	auth := NewAuthManager(testSecret, time.Hour)
	srv := NewServer(d.license, d.plans, d.orders, auth, d.limiter, Options{Currency: "ARS", Messages: msgs}, newTestLogger())
	return srv.Router(), auth
}

func mustToken(t *testing.T, auth *AuthManager, role, tenantID string) string {
	t.Helper()
	tok, err := auth.Mint("user-1", role, tenantID)
	if err != nil {
		t.Fatalf("failed to mint test token: %v", err)
	}
	return tok
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
