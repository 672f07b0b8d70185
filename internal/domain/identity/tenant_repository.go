package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository persists tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
}
