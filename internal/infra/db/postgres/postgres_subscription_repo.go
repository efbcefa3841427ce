package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) repository.SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, tenant_id, plan_id, status, license_code, start_date, end_date, max_users, features, created_at, updated_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (` + subscriptionColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  plan_id=$3, status=$4, license_code=$5, start_date=$6, end_date=$7,
  max_users=$8, features=$9, updated_at=$11;`

	features := s.Features
	if features == nil {
		features = []string{}
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.TenantID, s.PlanID, string(s.Status), s.LicenseCode, s.StartDate, s.EndDate,
		s.MaxUsers, features, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return passThrough(err)
	}
	return nil
}

func (r *subscriptionRepo) FindActiveByTenant(ctx context.Context, tx repository.Tx, tenantID string, now time.Time) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE tenant_id=$1 AND status='active' AND end_date >= $2
 ORDER BY end_date DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, tenantID, now)
}

// FindCurrentByTenant ignores status: an expired or cancelled row is still
// what the tenant sees in their license screen.
func (r *subscriptionRepo) FindCurrentByTenant(ctx context.Context, tx repository.Tx, tenantID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE tenant_id=$1
 ORDER BY end_date DESC, created_at ASC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, tenantID)
}

func (r *subscriptionRepo) CountByTenant(ctx context.Context, tx repository.Tx, tenantID string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM subscriptions WHERE tenant_id=$1`, tenantID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *subscriptionRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `
UPDATE subscriptions
   SET status='expired', updated_at=$1
 WHERE status='active' AND end_date < $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, passThrough(err)
	}
	return int(tag.RowsAffected()), nil
}

// LockTenant takes a transaction-scoped advisory lock keyed by tenant, so
// it is only meaningful inside WithTx.
func (r *subscriptionRepo) LockTenant(ctx context.Context, tx repository.Tx, tenantID string) error {
	if !inTx(tx) {
		return domain.ErrInvalidExecContext
	}
	_, err := execSQL(ctx, r.pool, tx, `SELECT pg_advisory_xact_lock($1)`, hashToInt64("subscription:"+tenantID))
	return err
}

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoSubscription
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func scanSubscription(row rowScanner) (*model.Subscription, error) {
	var (
		s      model.Subscription
		status string
	)
	err := row.Scan(&s.ID, &s.TenantID, &s.PlanID, &status, &s.LicenseCode, &s.StartDate, &s.EndDate,
		&s.MaxUsers, &s.Features, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = model.SubscriptionStatus(status)
	return &s, nil
}
