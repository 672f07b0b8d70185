package persistence

import (
	"context"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var tenant identity.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &tenant, nil
}

func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var tenant identity.Tenant
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&tenant).Error; err != nil {
		return nil, translateError(err)
	}
	return &tenant, nil
}

func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Tenant{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return saveVersioned(r.db.WithContext(ctx), tenant)
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
