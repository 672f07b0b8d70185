package testutil

import (
	"context"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/report"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Identity
// =============================================================================

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// =============================================================================
// Partner
// =============================================================================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Warehouse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*partner.Warehouse, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Warehouse, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepository) ClearDefault(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	return m.Called(ctx, warehouse).Error(0)
}

func (m *MockWarehouseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// =============================================================================
// Catalog and inventory
// =============================================================================

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, tenantID, id, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, tenantID, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, tenantID, id, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) (int, error) {
	args := m.Called(ctx, tenantID, id, delta)
	return args.Int(0), args.Error(1)
}

type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockStockMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	return m.Called(ctx, movements).Error(0)
}

func (m *MockStockMovementRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, warehouseID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) CountByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, warehouseID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Trade
// =============================================================================

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Cart, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) FindOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*trade.Cart, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

// =============================================================================
// Finance, review, automation
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) ExistsCompletedForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) ExistsForCustomer(ctx context.Context, tenantID, productID, customerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, productID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) RatingSummary(ctx context.Context, tenantID, productID uuid.UUID) (*review.RatingSummary, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*automation.Rule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Rule, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRuleRepository) FindEnabledByTrigger(ctx context.Context, tenantID uuid.UUID, trigger automation.Trigger) ([]automation.Rule, error) {
	args := m.Called(ctx, tenantID, trigger)
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) RecordRun(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, tenantID, id, at).Error(0)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// =============================================================================
// Cross-cutting
// =============================================================================

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// =============================================================================
// Reports
// =============================================================================

type MockSalesReportRepository struct {
	mock.Mock
}

func (m *MockSalesReportRepository) Summary(ctx context.Context, tenantID uuid.UUID, period report.Period) (*report.SalesSummary, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SalesSummary), args.Error(1)
}

func (m *MockSalesReportRepository) Daily(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.DailySales, error) {
	args := m.Called(ctx, tenantID, period)
	return args.Get(0).([]report.DailySales), args.Error(1)
}

func (m *MockSalesReportRepository) TopProducts(ctx context.Context, tenantID uuid.UUID, period report.Period, limit int) ([]report.ProductSales, error) {
	args := m.Called(ctx, tenantID, period, limit)
	return args.Get(0).([]report.ProductSales), args.Error(1)
}

var (
	_ identity.TenantRepository         = (*MockTenantRepository)(nil)
	_ identity.UserRepository           = (*MockUserRepository)(nil)
	_ partner.CustomerRepository        = (*MockCustomerRepository)(nil)
	_ partner.WarehouseRepository       = (*MockWarehouseRepository)(nil)
	_ catalog.ProductRepository         = (*MockProductRepository)(nil)
	_ inventory.StockMovementRepository = (*MockStockMovementRepository)(nil)
	_ trade.CartRepository              = (*MockCartRepository)(nil)
	_ trade.OrderRepository             = (*MockOrderRepository)(nil)
	_ finance.PaymentRepository         = (*MockPaymentRepository)(nil)
	_ report.SalesReportRepository      = (*MockSalesReportRepository)(nil)
	_ review.ReviewRepository           = (*MockReviewRepository)(nil)
	_ automation.RuleRepository         = (*MockRuleRepository)(nil)
	_ shared.IdempotencyStore           = (*MockIdempotencyStore)(nil)
	_ shared.EventPublisher             = (*RecordingPublisher)(nil)
)
