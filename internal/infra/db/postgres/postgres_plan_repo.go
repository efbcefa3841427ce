package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.SubscriptionPlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

const planColumns = `id, name, description, price, duration_days, max_users, features, is_active, created_at, updated_at`

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	const q = `
INSERT INTO subscription_plans (` + planColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE
  SET name          = EXCLUDED.name,
      description   = EXCLUDED.description,
      price         = EXCLUDED.price,
      duration_days = EXCLUDED.duration_days,
      max_users     = EXCLUDED.max_users,
      features      = EXCLUDED.features,
      is_active     = EXCLUDED.is_active,
      updated_at    = EXCLUDED.updated_at;
`
	features := plan.Features
	if features == nil {
		features = []string{}
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		plan.ID, plan.Name, plan.Description, plan.Price, plan.DurationDays, plan.MaxUsers,
		features, plan.IsActive, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return passThrough(err)
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

// ListAll orders by price so the cheapest plan comes first.
func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+planColumns+` FROM subscription_plans ORDER BY price, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*model.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanPlan(row rowScanner) (*model.SubscriptionPlan, error) {
	var p model.SubscriptionPlan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays, &p.MaxUsers,
		&p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
