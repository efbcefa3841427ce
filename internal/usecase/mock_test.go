//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
)

// -----------------------------
// Utilities
// -----------------------------

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fixedClock returns a settable clock for deterministic expiry checks.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// =============================
// Repositories
// =============================

// ---- Mock LicenseCodeRepository ----

type MockLicenseCodeRepo struct {
	mu   sync.Mutex
	data map[string]*model.LicenseCode

	InsertCalls int

	InsertFunc     func(ctx context.Context, tx repository.Tx, c *model.LicenseCode) error
	FindByCodeFunc func(ctx context.Context, tx repository.Tx, code string) (*model.LicenseCode, error)
}

var _ repository.LicenseCodeRepository = (*MockLicenseCodeRepo)(nil)

func NewMockLicenseCodeRepo() *MockLicenseCodeRepo {
	return &MockLicenseCodeRepo{data: map[string]*model.LicenseCode{}}
}

func (r *MockLicenseCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.LicenseCode, error) {
	if r.FindByCodeFunc != nil {
		return r.FindByCodeFunc(ctx, tx, code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[code]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MockLicenseCodeRepo) Insert(ctx context.Context, tx repository.Tx, c *model.LicenseCode) error {
	r.mu.Lock()
	r.InsertCalls++
	r.mu.Unlock()
	if r.InsertFunc != nil {
		return r.InsertFunc(ctx, tx, c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[c.Code]; ok {
		return domain.ErrCodeCollision
	}
	cp := *c
	r.data[c.Code] = &cp
	return nil
}

func (r *MockLicenseCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.LicenseCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[c.Code]; !ok {
		return domain.ErrCodeNotFound
	}
	cp := *c
	r.data[c.Code] = &cp
	return nil
}

func (r *MockLicenseCodeRepo) Delete(ctx context.Context, tx repository.Tx, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[code]; !ok {
		return domain.ErrCodeNotFound
	}
	delete(r.data, code)
	return nil
}

func (r *MockLicenseCodeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.LicenseCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.LicenseCode, 0, len(r.data))
	for _, c := range r.data {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Get is a test-only peek at stored state.
func (r *MockLicenseCodeRepo) Get(code string) (*model.LicenseCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[code]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	data map[string]*model.Subscription // by id

	LockedTenants []string

	SaveFunc func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{data: map[string]*model.Subscription{}}
}

func (r *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.data[s.ID] = &cp
	return nil
}

func (r *MockSubscriptionRepo) FindActiveByTenant(ctx context.Context, tx repository.Tx, tenantID string, now time.Time) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*model.Subscription
	for _, s := range r.data {
		if s.TenantID == tenantID && s.Status == model.SubscriptionStatusActive && !s.IsExpired(now) {
			active = append(active, s)
		}
	}
	cur := model.Current(active)
	if cur == nil {
		return nil, domain.ErrNoSubscription
	}
	cp := *cur
	return &cp, nil
}

func (r *MockSubscriptionRepo) FindCurrentByTenant(ctx context.Context, tx repository.Tx, tenantID string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := model.Current(r.byTenant(tenantID))
	if cur == nil {
		return nil, domain.ErrNoSubscription
	}
	cp := *cur
	return &cp, nil
}

func (r *MockSubscriptionRepo) CountByTenant(ctx context.Context, tx repository.Tx, tenantID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byTenant(tenantID)), nil
}

func (r *MockSubscriptionRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.data {
		if s.Status == model.SubscriptionStatusActive && s.IsExpired(now) {
			s.Status = model.SubscriptionStatusExpired
			s.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *MockSubscriptionRepo) LockTenant(ctx context.Context, tx repository.Tx, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LockedTenants = append(r.LockedTenants, tenantID)
	return nil
}

// All returns a tenant's subscriptions sorted by start date.
func (r *MockSubscriptionRepo) All(tenantID string) []model.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := r.byTenant(tenantID)
	sort.Slice(subs, func(i, j int) bool { return subs[i].StartDate.Before(subs[j].StartDate) })
	out := make([]model.Subscription, len(subs))
	for i, s := range subs {
		out[i] = *s
	}
	return out
}

func (r *MockSubscriptionRepo) byTenant(tenantID string) []*model.Subscription {
	var out []*model.Subscription
	for _, s := range r.data {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out
}

// ---- Mock SubscriptionPlanRepository ----

type MockPlanRepo struct {
	mu   sync.Mutex
	data map[string]*model.SubscriptionPlan

	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error
}

var _ repository.SubscriptionPlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo(plans ...*model.SubscriptionPlan) *MockPlanRepo {
	r := &MockPlanRepo{data: map[string]*model.SubscriptionPlan{}}
	for _, p := range plans {
		r.data[p.ID] = p
	}
	return r
}

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.data[p.ID] = &cp
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.SubscriptionPlan, 0, len(r.data))
	for _, p := range r.data {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MockPlanRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
}

// ---- Mock CatalogRepository ----

type MockCatalogRepo struct {
	Products   map[string][]*model.Product   // by tenant
	Promotions map[string][]*model.Promotion // by tenant

	ListProductsErr error
}

var _ repository.CatalogRepository = (*MockCatalogRepo)(nil)

func NewMockCatalogRepo() *MockCatalogRepo {
	return &MockCatalogRepo{Products: map[string][]*model.Product{}, Promotions: map[string][]*model.Promotion{}}
}

func (r *MockCatalogRepo) ListProductsByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.Product, error) {
	if r.ListProductsErr != nil {
		return nil, r.ListProductsErr
	}
	return r.Products[tenantID], nil
}

func (r *MockCatalogRepo) ListActivePromotionsByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.Promotion, error) {
	var out []*model.Promotion
	for _, p := range r.Promotions[tenantID] {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---- Mock OrderRepository ----

type MockOrderRepo struct {
	mu     sync.Mutex
	Orders []*model.Order

	SaveFunc func(ctx context.Context, tx repository.Tx, o *model.Order) error
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func (r *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, o)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Orders = append(r.Orders, o)
	return nil
}

// ---- Mock TransactionManager ----

// MockTxManager serialises WithTx calls, which is how the row and advisory
// locks behave for callers touching the same code or tenant.
type MockTxManager struct {
	mu sync.Mutex

	Calls      int
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return fn(ctx, repository.NoTX)
}
