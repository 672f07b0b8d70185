package persistence

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are append-only.
type GormStockMovementRepository struct {
	db *gorm.DB
}

func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

func (r *GormStockMovementRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	err := r.applyFilter(r.byWarehouse(ctx, tenantID, warehouseID), filter).
		Scopes(OrderBy(filter, StockMovementSortFields, "created_at"), Paginate(filter)).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *GormStockMovementRepository) CountByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.byWarehouse(ctx, tenantID, warehouseID), filter).Count(&count).Error
	return count, err
}

func (r *GormStockMovementRepository) byWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Scopes(TenantScope(tenantID)).
		Where("warehouse_id = ?", warehouseID)
}

func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
