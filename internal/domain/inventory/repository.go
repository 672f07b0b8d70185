package inventory

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// StockMovementRepository stores movements. There is no update or delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	CreateBatch(ctx context.Context, movements []*StockMovement) error
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) (int64, error)
}
