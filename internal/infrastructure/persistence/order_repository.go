package persistence

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Preload("Items", orderItemsByCreation).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, OrderSortFields, "created_at"), Paginate(filter)).
		Preload("Items", orderItemsByCreation).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

// Create inserts the order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return translateError(err)
	}
	order.MarkStored()
	return nil
}

// Save updates the order header; items are immutable once placed. It fails
// with ErrConcurrencyConflict when the order changed since it was loaded.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return saveVersioned(r.db.WithContext(ctx), order)
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
