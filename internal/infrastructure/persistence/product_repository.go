package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDs loads several products of one tenant; missing ids are simply absent from the result
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, ProductSortFields, "created_at"), Paginate(filter)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Scopes(TenantScope(tenantID)).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return saveVersioned(r.db.WithContext(ctx), product)
}

func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&catalog.Product{}, "tenant_id = ? AND id = ?", tenantID, id))
}

// DecrementStock removes quantity units only if that many are on hand and
// returns the resulting level.
func (r *GormProductRepository) DecrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return r.shiftStock(ctx, tenantID, id, -quantity)
}

func (r *GormProductRepository) IncrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return r.shiftStock(ctx, tenantID, id, quantity)
}

// AdjustStock moves stock by a signed delta relative to the stored level.
func (r *GormProductRepository) AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) (int, error) {
	if delta == 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	return r.shiftStock(ctx, tenantID, id, delta)
}

// shiftStock applies delta in a single guarded UPDATE so concurrent writers
// compose instead of overwriting each other, then reads the level back. The
// read runs after the row lock is taken, so it sees this writer's result.
func (r *GormProductRepository) shiftStock(ctx context.Context, tenantID, id uuid.UUID, delta int) (int, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&catalog.Product{}).
		Where("tenant_id = ? AND id = ? AND stock + ? >= 0", tenantID, id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByIDForTenant(ctx, tenantID, id); err != nil {
			return 0, err
		}
		return 0, shared.ErrInsufficientStock
	}

	var stock int
	if err := db.Model(&catalog.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Select("stock").Scan(&stock).Error; err != nil {
		return 0, err
	}
	return stock, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "low_stock":
			if value == true {
				query = query.Where("stock <= low_stock_threshold")
			}
		case "in_stock":
			if value == true {
				query = query.Where("stock > 0")
			} else if value == false {
				query = query.Where("stock = 0")
			}
		}
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
