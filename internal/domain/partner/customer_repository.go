package partner

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
