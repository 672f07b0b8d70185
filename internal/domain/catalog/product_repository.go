package catalog

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// DecrementStock removes quantity units only if at least that many are
	// on hand. It returns the resulting level, or ErrInsufficientStock when
	// the guard fails.
	DecrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (int, error)
	// IncrementStock adds quantity units back and returns the resulting level
	IncrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (int, error)
	// AdjustStock moves stock by a signed delta against the stored level,
	// refusing to go below zero. It returns the resulting level.
	AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) (int, error)
}
