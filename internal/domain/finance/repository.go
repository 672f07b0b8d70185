package finance

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsCompletedForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error)
	Save(ctx context.Context, payment *Payment) error
}
