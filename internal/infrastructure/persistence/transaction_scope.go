package persistence

import (
	"context"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Carts() trade.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Warehouses() partner.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

func (r *gormTransactionalRepositories) Tenants() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

var (
	_ appshared.TransactionScope          = (*GormTransactionScope)(nil)
	_ appshared.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
