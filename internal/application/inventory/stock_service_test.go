package inventory

import (
	"context"
	"testing"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockFixture struct {
	svc        *StockService
	warehouses *testutil.MockWarehouseRepository
	products   *testutil.MockProductRepository
	movements  *testutil.MockStockMovementRepository
	publisher  *testutil.RecordingPublisher
	warehouse  *partner.Warehouse
	product    *catalog.Product
}

func newStockFixture(t *testing.T, tenantID uuid.UUID, stock int) *stockFixture {
	t.Helper()
	f := &stockFixture{
		warehouses: new(testutil.MockWarehouseRepository),
		products:   new(testutil.MockProductRepository),
		movements:  new(testutil.MockStockMovementRepository),
		publisher:  &testutil.RecordingPublisher{},
	}
	tx := &appshared.NoOpTransactionScope{
		ProductRepo:   f.products,
		MovementRepo:  f.movements,
		WarehouseRepo: f.warehouses,
	}
	f.svc = NewStockService(tx, f.warehouses, f.movements, f.publisher, zap.NewNop())

	var err error
	f.warehouse, err = partner.NewWarehouse(tenantID, "MAIN", "Main")
	require.NoError(t, err)
	f.product, err = catalog.NewProduct(tenantID, "SKU-1", "Widget", decimal.NewFromInt(5))
	require.NoError(t, err)
	f.product.Stock = stock
	require.NoError(t, f.product.SetLowStockThreshold(2))
	f.product.PullDomainEvents()
	return f
}

func TestStockService_Adjust(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("receives stock", func(t *testing.T) {
		f := newStockFixture(t, tenantID, 0)
		f.warehouses.On("FindByIDForTenant", ctx, tenantID, f.warehouse.ID).Return(f.warehouse, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, f.product.ID).Return(f.product, nil)
		f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
		f.products.On("AdjustStock", ctx, tenantID, f.product.ID, 10).Return(10, nil)

		resp, err := f.svc.Adjust(ctx, tenantID, f.warehouse.ID, AdjustStockRequest{
			ProductID: f.product.ID,
			Quantity:  10,
			Type:      "in",
			Reason:    "initial delivery",
			Reference: "PO-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "in", resp.Type)
		assert.Equal(t, 0, resp.StockBefore)
		assert.Equal(t, 10, resp.StockAfter)
		assert.Equal(t, f.warehouse.ID, *resp.WarehouseID)
		assert.Equal(t, []string{inventory.EventTypeStockAdjusted}, f.publisher.Types())
	})

	t.Run("shrink to threshold raises stock low", func(t *testing.T) {
		f := newStockFixture(t, tenantID, 5)
		f.warehouses.On("FindByIDForTenant", ctx, tenantID, f.warehouse.ID).Return(f.warehouse, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, f.product.ID).Return(f.product, nil)
		f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
		f.products.On("AdjustStock", ctx, tenantID, f.product.ID, -3).Return(2, nil)

		resp, err := f.svc.Adjust(ctx, tenantID, f.warehouse.ID, AdjustStockRequest{ProductID: f.product.ID, Quantity: -3, Reason: "damaged"})

		require.NoError(t, err)
		assert.Equal(t, "adjustment", resp.Type)
		assert.Equal(t, []string{inventory.EventTypeStockAdjusted, catalog.EventTypeStockLow}, f.publisher.Types())
	})

	t.Run("movement reflects stored level after concurrent sale", func(t *testing.T) {
		// the product was loaded at 10, a checkout took 3 before the adjustment ran
		f := newStockFixture(t, tenantID, 10)
		f.warehouses.On("FindByIDForTenant", ctx, tenantID, f.warehouse.ID).Return(f.warehouse, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, f.product.ID).Return(f.product, nil)
		f.products.On("AdjustStock", ctx, tenantID, f.product.ID, 5).Return(12, nil)
		f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := f.svc.Adjust(ctx, tenantID, f.warehouse.ID, AdjustStockRequest{ProductID: f.product.ID, Quantity: 5, Type: "in"})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.StockBefore)
		assert.Equal(t, 12, resp.StockAfter)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cannot go negative", func(t *testing.T) {
		f := newStockFixture(t, tenantID, 1)
		f.warehouses.On("FindByIDForTenant", ctx, tenantID, f.warehouse.ID).Return(f.warehouse, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, f.product.ID).Return(f.product, nil)
		f.products.On("AdjustStock", ctx, tenantID, f.product.ID, -2).Return(0, shared.ErrInsufficientStock)

		_, err := f.svc.Adjust(ctx, tenantID, f.warehouse.ID, AdjustStockRequest{ProductID: f.product.ID, Quantity: -2, Reason: "count"})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("inactive warehouse", func(t *testing.T) {
		f := newStockFixture(t, tenantID, 1)
		require.NoError(t, f.warehouse.SetActive(false))
		f.warehouses.On("FindByIDForTenant", ctx, tenantID, f.warehouse.ID).Return(f.warehouse, nil)

		_, err := f.svc.Adjust(ctx, tenantID, f.warehouse.ID, AdjustStockRequest{ProductID: f.product.ID, Quantity: 1, Reason: "count"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INACTIVE_WAREHOUSE", domainErr.Code)
	})
}

func TestStockService_ListMovements(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newStockFixture(t, tenantID, 0)
	movement, err := inventory.NewStockMovement(inventory.MovementInput{
		TenantID:    tenantID,
		WarehouseID: &f.warehouse.ID,
		ProductID:   f.product.ID,
		Type:        inventory.MovementTypeIn,
		Quantity:    4,
	})
	require.NoError(t, err)
	byProduct := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["product_id"] == f.product.ID && filter.Filters["type"] == "in"
	})
	f.warehouses.On("FindByIDForTenant", ctx, tenantID, f.warehouse.ID).Return(f.warehouse, nil)
	f.movements.On("FindByWarehouse", ctx, tenantID, f.warehouse.ID, byProduct).Return([]inventory.StockMovement{*movement}, nil)
	f.movements.On("CountByWarehouse", ctx, tenantID, f.warehouse.ID, byProduct).Return(int64(1), nil)

	movements, total, err := f.svc.ListMovements(ctx, tenantID, f.warehouse.ID, MovementListFilter{ProductID: f.product.ID.String(), Type: "in"})

	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 4, movements[0].StockAfter)
	assert.Equal(t, int64(1), total)
}
