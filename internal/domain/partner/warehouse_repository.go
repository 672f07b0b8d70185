package partner

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Warehouse, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// ClearDefault unsets the default flag on every warehouse of the tenant
	ClearDefault(ctx context.Context, tenantID uuid.UUID) error
	Save(ctx context.Context, warehouse *Warehouse) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
