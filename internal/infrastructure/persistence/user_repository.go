package persistence

import (
	"context"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByUsername looks up a user by username within a tenant (case-insensitive)
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Where("username = ?", normalizeUsername(username)).
		First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.User{}).Scopes(TenantScope(tenantID)).
		Where("username = ?", normalizeUsername(username)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return saveVersioned(r.db.WithContext(ctx), user)
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
