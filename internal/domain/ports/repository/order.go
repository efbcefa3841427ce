package repository

import (
	"context"

	"bos-storefront/internal/domain/model"
)

type OrderRepository interface {
	// Save inserts the order and its items.
	Save(ctx context.Context, tx Tx, order *model.Order) error
}
