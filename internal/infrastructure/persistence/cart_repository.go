package persistence

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Cart, error) {
	var cart trade.Cart
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Preload("Items", orderItemsByCreation).
		First(&cart, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &cart, nil
}

// FindOpenByCustomer returns the customer's open cart, or ErrNotFound
func (r *GormCartRepository) FindOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*trade.Cart, error) {
	var cart trade.Cart
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Preload("Items", orderItemsByCreation).
		Where("customer_id = ? AND status = ?", customerID, trade.CartStatusOpen).
		Order("created_at DESC").
		First(&cart).Error; err != nil {
		return nil, translateError(err)
	}
	return &cart, nil
}

// Save upserts the cart row and replaces its item rows with cart.Items
func (r *GormCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	db := r.db.WithContext(ctx)
	if err := saveVersioned(db, cart); err != nil {
		return err
	}
	if err := db.Where("tenant_id = ? AND cart_id = ?", cart.TenantID, cart.ID).
		Delete(&trade.CartItem{}).Error; err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return nil
	}
	return db.Create(&cart.Items).Error
}

func orderItemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

var _ trade.CartRepository = (*GormCartRepository)(nil)
