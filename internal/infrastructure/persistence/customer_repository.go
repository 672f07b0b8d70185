package persistence

import (
	"context"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&customer, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	err := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Customer{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, CustomerSortFields, "created_at"), Paginate(filter)).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Customer{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Customer{}).Scopes(TenantScope(tenantID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return saveVersioned(r.db.WithContext(ctx), customer)
}

func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&partner.Customer{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("(LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)", pattern, pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
