package repository

import (
	"context"

	"bos-storefront/internal/domain/model"
)

// CatalogRepository reads a tenant's products and promotions.
type CatalogRepository interface {
	ListProductsByTenant(ctx context.Context, tx Tx, tenantID string) ([]*model.Product, error)
	ListActivePromotionsByTenant(ctx context.Context, tx Tx, tenantID string) ([]*model.Promotion, error)
}
