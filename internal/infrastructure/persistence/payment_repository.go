package persistence

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payment, error) {
	var payment finance.Payment
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&payment, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	var payments []finance.Payment
	err := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Payment{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, PaymentSortFields, "created_at"), Paginate(filter)).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *GormPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Payment{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

func (r *GormPaymentRepository) ExistsCompletedForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&finance.Payment{}).Scopes(TenantScope(tenantID)).
		Where("order_id = ? AND status = ?", orderID, finance.PaymentStatusCompleted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return saveVersioned(r.db.WithContext(ctx), payment)
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		}
	}
	return query
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
