package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users scoped by tenant
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	Save(ctx context.Context, user *User) error
}
