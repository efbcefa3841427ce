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

// Ensure implementation satisfies the interface.
var _ repository.LicenseCodeRepository = (*licenseCodeRepo)(nil)

type licenseCodeRepo struct {
	pool *pgxpool.Pool
}

func NewLicenseCodeRepo(pool *pgxpool.Pool) repository.LicenseCodeRepository {
	return &licenseCodeRepo{pool: pool}
}

const licenseCodeColumns = `code, plan_id, duration_days, is_used, used_by_tenant_id, used_at, expires_at, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLicenseCode(row rowScanner) (*model.LicenseCode, error) {
	var c model.LicenseCode
	err := row.Scan(&c.Code, &c.PlanID, &c.DurationDays, &c.IsUsed, &c.UsedByTenantID, &c.UsedAt, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert relies on the primary key for uniqueness; a taken code affects no rows.
func (r *licenseCodeRepo) Insert(ctx context.Context, tx repository.Tx, code *model.LicenseCode) error {
	const q = `
INSERT INTO license_codes (` + licenseCodeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (code) DO NOTHING;
`
	tag, err := execSQL(ctx, r.pool, tx, q,
		code.Code, code.PlanID, code.DurationDays, code.IsUsed, code.UsedByTenantID, code.UsedAt, code.ExpiresAt, code.CreatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeCollision
	}
	return nil
}

// FindByCode takes a row lock when called inside a transaction so two
// concurrent activations of the same code serialise on it.
func (r *licenseCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.LicenseCode, error) {
	q := `SELECT ` + licenseCodeColumns + ` FROM license_codes WHERE code = $1`
	if inTx(tx) {
		q += ` FOR UPDATE`
	}
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	c, err := scanLicenseCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

// Save only persists usage; plan and duration are fixed at generation.
func (r *licenseCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.LicenseCode) error {
	const q = `
UPDATE license_codes
   SET is_used = $2, used_by_tenant_id = $3, used_at = $4
 WHERE code = $1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, code.Code, code.IsUsed, code.UsedByTenantID, code.UsedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeNotFound
	}
	return nil
}

func (r *licenseCodeRepo) Delete(ctx context.Context, tx repository.Tx, code string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM license_codes WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeNotFound
	}
	return nil
}

// ListAll returns newest first.
func (r *licenseCodeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.LicenseCode, error) {
	const q = `SELECT ` + licenseCodeColumns + ` FROM license_codes ORDER BY created_at DESC, code`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.LicenseCode
	for rows.Next() {
		c, err := scanLicenseCode(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
