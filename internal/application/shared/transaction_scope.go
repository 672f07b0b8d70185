package shared

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
)

// TransactionScope runs fn inside a single database transaction.
// If fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Carts() trade.CartRepository
	Orders() trade.OrderRepository
	Movements() inventory.StockMovementRepository
	Payments() finance.PaymentRepository
	Warehouses() partner.WarehouseRepository
	Tenants() identity.TenantRepository
	Users() identity.UserRepository
}

// NoOpTransactionScope calls fn directly with its repository fields.
// Intended for unit tests with mocked repositories; unset fields stay nil.
type NoOpTransactionScope struct {
	ProductRepo   catalog.ProductRepository
	CartRepo      trade.CartRepository
	OrderRepo     trade.OrderRepository
	MovementRepo  inventory.StockMovementRepository
	PaymentRepo   finance.PaymentRepository
	WarehouseRepo partner.WarehouseRepository
	TenantRepo    identity.TenantRepository
	UserRepo      identity.UserRepository
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Products() catalog.ProductRepository          { return s.ProductRepo }
func (s *NoOpTransactionScope) Carts() trade.CartRepository                  { return s.CartRepo }
func (s *NoOpTransactionScope) Orders() trade.OrderRepository                { return s.OrderRepo }
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository { return s.MovementRepo }
func (s *NoOpTransactionScope) Payments() finance.PaymentRepository          { return s.PaymentRepo }
func (s *NoOpTransactionScope) Warehouses() partner.WarehouseRepository      { return s.WarehouseRepo }
func (s *NoOpTransactionScope) Tenants() identity.TenantRepository           { return s.TenantRepo }
func (s *NoOpTransactionScope) Users() identity.UserRepository               { return s.UserRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
