package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
)

var _ repository.CatalogRepository = (*catalogRepo)(nil)

type catalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) repository.CatalogRepository {
	return &catalogRepo{pool: pool}
}

// ListProductsByTenant includes inactive products; the storefront use case filters them.
func (r *catalogRepo) ListProductsByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.Product, error) {
	const q = `
SELECT id, tenant_id, name, price, COALESCE(category_id, ''), is_active
  FROM products
 WHERE tenant_id = $1
 ORDER BY id;`
	rows, err := queryRows(ctx, r.pool, tx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Price, &p.CategoryID, &p.IsActive); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ListActivePromotionsByTenant aggregates each promotion's product ids in id order.
func (r *catalogRepo) ListActivePromotionsByTenant(ctx context.Context, tx repository.Tx, tenantID string) ([]*model.Promotion, error) {
	const q = `
SELECT p.id, p.tenant_id, p.name, p.type, p.active, COALESCE(p.description, ''),
       p.percentage, p.buy_qty, p.pay_qty, p.fixed_price,
       COALESCE(array_agg(pp.product_id ORDER BY pp.product_id) FILTER (WHERE pp.product_id IS NOT NULL), '{}')
  FROM promotions p
  LEFT JOIN promotion_products pp ON pp.promotion_id = p.id
 WHERE p.tenant_id = $1 AND p.active
 GROUP BY p.id
 ORDER BY p.id;`
	rows, err := queryRows(ctx, r.pool, tx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Promotion
	for rows.Next() {
		var (
			p   model.Promotion
			typ string
		)
		err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &typ, &p.Active, &p.Description,
			&p.Percentage, &p.BuyQty, &p.PayQty, &p.FixedPrice, &p.ProductIDs)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		p.Type = model.PromotionType(typ)
		out = append(out, &p)
	}
	return out, rows.Err()
}
