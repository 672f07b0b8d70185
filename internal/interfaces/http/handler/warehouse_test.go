package handler

import (
	"net/http"
	"testing"

	inventoryapp "github.com/anu-devcode/deploy-test-sub002/internal/application/inventory"
	partnerapp "github.com/anu-devcode/deploy-test-sub002/internal/application/partner"
	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type warehouseHandlerFixture struct {
	router     *gin.Engine
	warehouses *testutil.MockWarehouseRepository
	products   *testutil.MockProductRepository
	movements  *testutil.MockStockMovementRepository
	publisher  *testutil.RecordingPublisher
	warehouse  *partner.Warehouse
}

func newWarehouseHandlerFixture(t *testing.T) *warehouseHandlerFixture {
	t.Helper()
	f := &warehouseHandlerFixture{
		warehouses: new(testutil.MockWarehouseRepository),
		products:   new(testutil.MockProductRepository),
		movements:  new(testutil.MockStockMovementRepository),
		publisher:  &testutil.RecordingPublisher{},
	}
	var err error
	f.warehouse, err = partner.NewWarehouse(testutil.TestTenantID(), "MAIN", "Main warehouse")
	require.NoError(t, err)

	txScope := &appshared.NoOpTransactionScope{
		ProductRepo:   f.products,
		MovementRepo:  f.movements,
		WarehouseRepo: f.warehouses,
	}
	h := NewWarehouseHandler(
		partnerapp.NewWarehouseService(f.warehouses, txScope),
		inventoryapp.NewStockService(txScope, f.warehouses, f.movements, f.publisher, zap.NewNop()),
	)

	f.router = setupTestRouter()
	f.router.POST("/warehouses", h.Create)
	f.router.GET("/warehouses", h.List)
	f.router.GET("/warehouses/:id", h.GetByID)
	f.router.PUT("/warehouses/:id", h.Update)
	f.router.DELETE("/warehouses/:id", h.Delete)
	f.router.POST("/warehouses/:id/stock-adjustments", h.AdjustStock)
	f.router.GET("/warehouses/:id/stock-movements", h.ListMovements)
	f.warehouses.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), f.warehouse.ID).Return(f.warehouse, nil)
	return f
}

func (f *warehouseHandlerFixture) path(suffix string) string {
	return "/warehouses/" + f.warehouse.ID.String() + suffix
}

func TestWarehouseHandler_Create(t *testing.T) {
	t.Run("default warehouse clears the previous default", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		f.warehouses.On("ExistsByCode", mock.Anything, testutil.TestTenantID(), "EAST").Return(false, nil)
		f.warehouses.On("ClearDefault", mock.Anything, testutil.TestTenantID()).Return(nil)
		f.warehouses.On("Save", mock.Anything, mock.AnythingOfType("*partner.Warehouse")).Return(nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/warehouses",
			gin.H{"code": "east", "name": "East", "is_default": true}, nil)

		require.Equal(t, http.StatusCreated, tc.Recorder.Code, tc.Recorder.Body.String())
		resp := testutil.JSONResponseAs[struct {
			Data partnerapp.WarehouseResponse `json:"data"`
		}](t, tc)
		assert.Equal(t, "EAST", resp.Data.Code)
		assert.True(t, resp.Data.IsDefault)
		f.warehouses.AssertCalled(t, "ClearDefault", mock.Anything, testutil.TestTenantID())
	})

	t.Run("duplicate code", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		f.warehouses.On("ExistsByCode", mock.Anything, testutil.TestTenantID(), "MAIN").Return(true, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/warehouses",
			gin.H{"code": "MAIN", "name": "Again"}, nil)

		assert.Equal(t, http.StatusConflict, tc.Recorder.Code)
	})
}

func TestWarehouseHandler_Delete_Default(t *testing.T) {
	f := newWarehouseHandlerFixture(t)
	require.NoError(t, f.warehouse.SetDefault(true))

	tc := testutil.PerformRequest(t, f.router, http.MethodDelete, f.path(""), nil, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, tc.Recorder.Code)
	testutil.AssertErrorResponse(t, tc, "ERR_CANNOT_DELETE_DEFAULT")
	f.warehouses.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestWarehouseHandler_AdjustStock(t *testing.T) {
	newProduct := func(t *testing.T, stock int) *catalog.Product {
		t.Helper()
		p, err := catalog.NewProduct(testutil.TestTenantID(), "SKU-7", "Kettle", decimal.NewFromInt(25))
		require.NoError(t, err)
		require.NoError(t, p.SetLowStockThreshold(2))
		p.Stock = stock
		p.PullDomainEvents()
		return p
	}

	t.Run("receives stock", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		product := newProduct(t, 4)
		f.products.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), product.ID).Return(product, nil)
		f.movements.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
		f.products.On("AdjustStock", mock.Anything, testutil.TestTenantID(), product.ID, 6).Return(10, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.path("/stock-adjustments"), gin.H{
			"product_id": product.ID,
			"quantity":   6,
			"type":       "in",
			"reason":     "supplier delivery",
			"reference":  "PO-1",
		}, nil)

		require.Equal(t, http.StatusCreated, tc.Recorder.Code, tc.Recorder.Body.String())
		resp := testutil.JSONResponseAs[struct {
			Data inventoryapp.StockMovementResponse `json:"data"`
		}](t, tc)
		assert.Equal(t, "in", resp.Data.Type)
		assert.Equal(t, 4, resp.Data.StockBefore)
		assert.Equal(t, 10, resp.Data.StockAfter)
		require.NotNil(t, resp.Data.CreatedBy)
		assert.Equal(t, testutil.TestUserID(), *resp.Data.CreatedBy)
		assert.Equal(t, []string{inventory.EventTypeStockAdjusted}, f.publisher.Types())
	})

	t.Run("removal into low stock", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		product := newProduct(t, 4)
		f.products.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), product.ID).Return(product, nil)
		f.movements.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
		f.products.On("AdjustStock", mock.Anything, testutil.TestTenantID(), product.ID, -3).Return(1, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.path("/stock-adjustments"),
			gin.H{"product_id": product.ID, "quantity": -3, "reason": "damaged"}, nil)

		require.Equal(t, http.StatusCreated, tc.Recorder.Code, tc.Recorder.Body.String())
		assert.Equal(t, []string{inventory.EventTypeStockAdjusted, catalog.EventTypeStockLow}, f.publisher.Types())
	})

	t.Run("cannot go negative", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		product := newProduct(t, 1)
		f.products.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), product.ID).Return(product, nil)
		f.products.On("AdjustStock", mock.Anything, testutil.TestTenantID(), product.ID, -2).Return(0, shared.ErrInsufficientStock)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.path("/stock-adjustments"),
			gin.H{"product_id": product.ID, "quantity": -2, "type": "out", "reason": "shrinkage"}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_INSUFFICIENT_STOCK")
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Types())
	})

	t.Run("inactive warehouse", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		f.warehouse.Active = false
		product := newProduct(t, 1)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.path("/stock-adjustments"),
			gin.H{"product_id": product.ID, "quantity": 1, "reason": "count"}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_INACTIVE_WAREHOUSE")
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newWarehouseHandlerFixture(t)
		product := newProduct(t, 1)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.path("/stock-adjustments"),
			gin.H{"product_id": product.ID, "quantity": 0, "reason": "count"}, nil)

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_VALIDATION")
	})
}

func TestWarehouseHandler_ListMovements(t *testing.T) {
	f := newWarehouseHandlerFixture(t)
	matchFilter := mock.MatchedBy(func(flt shared.Filter) bool {
		return flt.Filters["type"] == "sale"
	})
	movement, err := inventory.NewStockMovement(inventory.MovementInput{
		TenantID:    testutil.TestTenantID(),
		WarehouseID: &f.warehouse.ID,
		ProductID:   f.warehouse.ID,
		Type:        inventory.MovementTypeSale,
		Quantity:    -1,
		StockBefore: 3,
	})
	require.NoError(t, err)
	f.movements.On("FindByWarehouse", mock.Anything, testutil.TestTenantID(), f.warehouse.ID, matchFilter).
		Return([]inventory.StockMovement{*movement}, nil)
	f.movements.On("CountByWarehouse", mock.Anything, testutil.TestTenantID(), f.warehouse.ID, matchFilter).
		Return(int64(1), nil)

	tc := testutil.PerformRequest(t, f.router, http.MethodGet, f.path("/stock-movements?type=sale"), nil, nil)

	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
	resp := testutil.JSONResponseAs[struct {
		Data []inventoryapp.StockMovementResponse `json:"data"`
	}](t, tc)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].StockAfter)

	tc = testutil.PerformRequest(t, f.router, http.MethodGet, f.path("/stock-movements?type=teleport"), nil, nil)
	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
}
