package review

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Review, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsForCustomer(ctx context.Context, tenantID, productID, customerID uuid.UUID) (bool, error)
	RatingSummary(ctx context.Context, tenantID, productID uuid.UUID) (*RatingSummary, error)
	Save(ctx context.Context, review *Review) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
