package repository

import (
	"context"

	"bos-storefront/internal/domain/model"
)

// LicenseCodeRepository is the port for license code persistence.
type LicenseCodeRepository interface {
	// FindByCode returns domain.ErrCodeNotFound when absent. Locks the row under a tx.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.LicenseCode, error)
	// Insert stores a new code; domain.ErrCodeCollision when the code is taken.
	Insert(ctx context.Context, tx Tx, code *model.LicenseCode) error
	// Save updates usage fields of an existing code.
	Save(ctx context.Context, tx Tx, code *model.LicenseCode) error
	Delete(ctx context.Context, tx Tx, code string) error
	ListAll(ctx context.Context, tx Tx) ([]*model.LicenseCode, error)
}
