package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepo{pool: pool}
}

// Save writes the order header and its items atomically. Without a caller
// transaction it opens its own.
func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	switch v := tx.(type) {
	case pgx.Tx:
		return r.save(ctx, v, o)
	case nil:
		return r.pool.BeginFunc(ctx, func(t pgx.Tx) error { return r.save(ctx, t, o) })
	default:
		return domain.ErrInvalidExecContext
	}
}

func (r *orderRepo) save(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	const qOrder = `
INSERT INTO orders (
  id, tenant_id, customer_name, customer_phone, customer_email, status,
  delivery_method, payment_method, total, currency,
  address_street, address_number, address_neighborhood, address_floor, address_apartment, address_reference,
  created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17);`
	const qItem = `
INSERT INTO order_items (id, order_id, kind, product_id, promotion_id, quantity, unit_price, line_total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	var a model.Address
	if o.Address != nil {
		a = *o.Address
	}
	b := &pgx.Batch{}
	b.Queue(qOrder,
		o.ID, o.TenantID, o.CustomerName, o.CustomerPhone, o.CustomerEmail, string(o.Status),
		o.DeliveryMethod, o.PaymentMethod, o.Total, o.Currency,
		nullIfEmpty(a.Street), nullIfEmpty(a.Number), nullIfEmpty(a.Neighborhood),
		nullIfEmpty(a.Floor), nullIfEmpty(a.Apartment), nullIfEmpty(a.Reference),
		o.CreatedAt,
	)
	for _, it := range o.Items {
		b.Queue(qItem, it.ID, o.ID, string(it.Kind), it.ProductID, it.PromotionID, it.Quantity, it.UnitPrice, it.LineTotal)
	}

	br := tx.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return br.Close()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
