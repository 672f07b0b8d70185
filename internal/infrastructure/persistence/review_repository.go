package persistence

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*review.Review, error) {
	var rv review.Review
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&rv, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &rv, nil
}

func (r *GormReviewRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	err := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, ReviewSortFields, "created_at"), Paginate(filter)).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

func (r *GormReviewRepository) ExistsForCustomer(ctx context.Context, tenantID, productID, customerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&review.Review{}).Scopes(TenantScope(tenantID)).
		Where("product_id = ? AND customer_id = ?", productID, customerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RatingSummary aggregates approved reviews of a product
func (r *GormReviewRepository) RatingSummary(ctx context.Context, tenantID, productID uuid.UUID) (*review.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	if err := r.db.WithContext(ctx).Model(&review.Review{}).Scopes(TenantScope(tenantID)).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, review.ReviewStatusApproved).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &review.RatingSummary{ProductID: productID, Average: row.Average, Count: row.Count}, nil
}

func (r *GormReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	return saveVersioned(r.db.WithContext(ctx), rv)
}

func (r *GormReviewRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&review.Review{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

var _ review.ReviewRepository = (*GormReviewRepository)(nil)
