package trade

import (
	"testing"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type tradeMocks struct {
	carts      *testutil.MockCartRepository
	orders     *testutil.MockOrderRepository
	products   *testutil.MockProductRepository
	customers  *testutil.MockCustomerRepository
	tenants    *testutil.MockTenantRepository
	warehouses *testutil.MockWarehouseRepository
	movements  *testutil.MockStockMovementRepository
	idem       *testutil.MockIdempotencyStore
	publisher  *testutil.RecordingPublisher
}

func newTradeMocks() *tradeMocks {
	return &tradeMocks{
		carts:      new(testutil.MockCartRepository),
		orders:     new(testutil.MockOrderRepository),
		products:   new(testutil.MockProductRepository),
		customers:  new(testutil.MockCustomerRepository),
		tenants:    new(testutil.MockTenantRepository),
		warehouses: new(testutil.MockWarehouseRepository),
		movements:  new(testutil.MockStockMovementRepository),
		idem:       new(testutil.MockIdempotencyStore),
		publisher:  &testutil.RecordingPublisher{},
	}
}

func (m *tradeMocks) txScope() *appshared.NoOpTransactionScope {
	return &appshared.NoOpTransactionScope{
		ProductRepo:   m.products,
		CartRepo:      m.carts,
		OrderRepo:     m.orders,
		MovementRepo:  m.movements,
		WarehouseRepo: m.warehouses,
		TenantRepo:    m.tenants,
	}
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, "jane@example.com", "Jane", "Doe")
	require.NoError(t, err)
	return c
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, sku, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, sku, "Product "+sku, decimal.RequireFromString(price))
	require.NoError(t, err)
	p.Stock = stock
	p.PullDomainEvents()
	return p
}
