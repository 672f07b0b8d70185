package trade

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// CartRepository persists carts together with their items
type CartRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Cart, error)
	FindOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*Cart, error)
	// Save upserts the cart and replaces its item rows
	Save(ctx context.Context, cart *Cart) error
}

// OrderRepository persists orders together with their items
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// Create inserts a new order and its items
	Create(ctx context.Context, order *Order) error
	// Save updates order header fields; items are immutable once placed
	Save(ctx context.Context, order *Order) error
}
