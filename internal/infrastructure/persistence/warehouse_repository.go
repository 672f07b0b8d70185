package persistence

import (
	"context"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

func (r *GormWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &warehouse, nil
}

// FindDefault finds the default warehouse for a tenant
func (r *GormWarehouseRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Where("is_default = ?", true).
		First(&warehouse).Error; err != nil {
		return nil, translateError(err)
	}
	return &warehouse, nil
}

func (r *GormWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Warehouse, error) {
	var warehouses []partner.Warehouse
	err := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Warehouse{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, WarehouseSortFields, "created_at"), Paginate(filter)).
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *GormWarehouseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Warehouse{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Warehouse{}).Scopes(TenantScope(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearDefault unsets the default flag on every warehouse of the tenant
func (r *GormWarehouseRepository) ClearDefault(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&partner.Warehouse{}).Scopes(TenantScope(tenantID)).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	return saveVersioned(r.db.WithContext(ctx), warehouse)
}

func (r *GormWarehouseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&partner.Warehouse{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormWarehouseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var _ partner.WarehouseRepository = (*GormWarehouseRepository)(nil)
