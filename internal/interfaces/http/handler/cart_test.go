package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	tradeapp "github.com/anu-devcode/deploy-test-sub002/internal/application/trade"
	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cartTestIdempotencyTTL = time.Hour

type cartHandlerFixture struct {
	router     *gin.Engine
	carts      *testutil.MockCartRepository
	customers  *testutil.MockCustomerRepository
	products   *testutil.MockProductRepository
	orders     *testutil.MockOrderRepository
	tenants    *testutil.MockTenantRepository
	warehouses *testutil.MockWarehouseRepository
	movements  *testutil.MockStockMovementRepository
	idem       *testutil.MockIdempotencyStore
	publisher  *testutil.RecordingPublisher

	tenant   *identity.Tenant
	customer *partner.Customer
	product  *catalog.Product
	cart     *trade.Cart
}

func newCartHandlerFixture(t *testing.T, stock int) *cartHandlerFixture {
	t.Helper()
	tenantID := testutil.TestTenantID()
	f := &cartHandlerFixture{
		carts:      new(testutil.MockCartRepository),
		customers:  new(testutil.MockCustomerRepository),
		products:   new(testutil.MockProductRepository),
		orders:     new(testutil.MockOrderRepository),
		tenants:    new(testutil.MockTenantRepository),
		warehouses: new(testutil.MockWarehouseRepository),
		movements:  new(testutil.MockStockMovementRepository),
		idem:       new(testutil.MockIdempotencyStore),
		publisher:  &testutil.RecordingPublisher{},
	}

	var err error
	f.tenant, err = identity.NewTenant("acme", "Acme")
	require.NoError(t, err)
	f.tenant.ID = tenantID
	f.customer, err = partner.NewCustomer(tenantID, "jane@example.com", "Jane", "Doe")
	require.NoError(t, err)
	f.product, err = catalog.NewProduct(tenantID, "SKU-1", "Mug", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	f.product.Stock = stock
	f.product.PullDomainEvents()
	f.cart, err = trade.NewCart(tenantID, f.customer.ID)
	require.NoError(t, err)

	txScope := &appshared.NoOpTransactionScope{
		ProductRepo:   f.products,
		CartRepo:      f.carts,
		OrderRepo:     f.orders,
		MovementRepo:  f.movements,
		WarehouseRepo: f.warehouses,
		TenantRepo:    f.tenants,
	}
	h := NewCartHandler(
		tradeapp.NewCartService(f.carts, f.customers, f.products),
		tradeapp.NewCheckoutService(txScope, f.customers, f.tenants, f.idem, cartTestIdempotencyTTL, f.publisher, zap.NewNop()),
	)

	f.router = setupTestRouter()
	f.router.POST("/carts", h.Create)
	f.router.GET("/carts/:id", h.GetByID)
	f.router.POST("/carts/:id/items", h.AddItem)
	f.router.PUT("/carts/:id/items/:item_id", h.UpdateItem)
	f.router.DELETE("/carts/:id/items/:item_id", h.RemoveItem)
	f.router.DELETE("/carts/:id/items", h.Clear)
	f.router.POST("/carts/:id/checkout", h.Checkout)
	return f
}

func (f *cartHandlerFixture) cartPath(suffix string) string {
	return "/carts/" + f.cart.ID.String() + suffix
}

func (f *cartHandlerFixture) expectCart() {
	f.carts.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), f.cart.ID).Return(f.cart, nil)
}

func (f *cartHandlerFixture) expectProduct() {
	f.products.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), f.product.ID).Return(f.product, nil)
}

// fillCart puts quantity units of the fixture product in the cart at a stale price
func (f *cartHandlerFixture) fillCart(t *testing.T, quantity int) {
	t.Helper()
	_, err := f.cart.AddItem(f.product.ID, quantity, decimal.RequireFromString("9.00"))
	require.NoError(t, err)
}

func decodeCart(t *testing.T, tc *testutil.TestContext) tradeapp.CartResponse {
	t.Helper()
	return testutil.JSONResponseAs[struct {
		Data tradeapp.CartResponse `json:"data"`
	}](t, tc).Data
}

func decodeOrder(t *testing.T, tc *testutil.TestContext) tradeapp.OrderResponse {
	t.Helper()
	return testutil.JSONResponseAs[struct {
		Data tradeapp.OrderResponse `json:"data"`
	}](t, tc).Data
}

func TestCartHandler_Create(t *testing.T) {
	t.Run("opens a cart", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		f.customers.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), f.customer.ID).Return(f.customer, nil)
		f.carts.On("FindOpenByCustomer", mock.Anything, testutil.TestTenantID(), f.customer.ID).Return(nil, shared.ErrNotFound)
		f.carts.On("Save", mock.Anything, mock.AnythingOfType("*trade.Cart")).Return(nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/carts", gin.H{"customer_id": f.customer.ID}, nil)

		require.Equal(t, http.StatusCreated, tc.Recorder.Code, tc.Recorder.Body.String())
		cart := decodeCart(t, tc)
		assert.Equal(t, f.customer.ID, cart.CustomerID)
		assert.Equal(t, "open", cart.Status)
		assert.Empty(t, cart.Items)
	})

	t.Run("returns the existing open cart", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		f.customers.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), f.customer.ID).Return(f.customer, nil)
		f.carts.On("FindOpenByCustomer", mock.Anything, testutil.TestTenantID(), f.customer.ID).Return(f.cart, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/carts", gin.H{"customer_id": f.customer.ID}, nil)

		require.Equal(t, http.StatusCreated, tc.Recorder.Code)
		assert.Equal(t, f.cart.ID, decodeCart(t, tc).ID)
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inactive customer", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		require.NoError(t, f.customer.Deactivate())
		f.customers.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), f.customer.ID).Return(f.customer, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/carts", gin.H{"customer_id": f.customer.ID}, nil)

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_CUSTOMER_INACTIVE")
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("adds at current price", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		f.expectCart()
		f.expectProduct()
		f.carts.On("Save", mock.Anything, f.cart).Return(nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/items"),
			gin.H{"product_id": f.product.ID, "quantity": 2}, nil)

		require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
		cart := decodeCart(t, tc)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, "20", cart.Subtotal.String())
	})

	t.Run("merged quantity over stock", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		f.fillCart(t, 4)
		f.expectCart()
		f.expectProduct()

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/items"),
			gin.H{"product_id": f.product.ID, "quantity": 2}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_INSUFFICIENT_STOCK")
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/items"),
			gin.H{"product_id": f.product.ID, "quantity": 0}, nil)

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	})
}

func TestCartHandler_ItemLifecycle(t *testing.T) {
	f := newCartHandlerFixture(t, 10)
	f.fillCart(t, 2)
	itemID := f.cart.Items[0].ID
	f.expectCart()
	f.expectProduct()
	f.carts.On("Save", mock.Anything, f.cart).Return(nil)
	itemPath := f.cartPath("/items/" + itemID.String())

	tc := testutil.PerformRequest(t, f.router, http.MethodPut, itemPath, gin.H{"quantity": 6}, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
	assert.Equal(t, 6, decodeCart(t, tc).ItemCount)

	tc = testutil.PerformRequest(t, f.router, http.MethodPut, f.cartPath("/items/"+uuid.NewString()), gin.H{"quantity": 1}, nil)
	assert.Equal(t, http.StatusNotFound, tc.Recorder.Code)

	tc = testutil.PerformRequest(t, f.router, http.MethodDelete, itemPath, nil, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	assert.Empty(t, decodeCart(t, tc).Items)

	f.fillCart(t, 1)
	tc = testutil.PerformRequest(t, f.router, http.MethodDelete, f.cartPath("/items"), nil, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	assert.Zero(t, decodeCart(t, tc).ItemCount)
}

func TestCartHandler_Checkout(t *testing.T) {
	f := newCartHandlerFixture(t, 5)
	tenantID := testutil.TestTenantID()
	f.fillCart(t, 3)

	f.idem.On("Reserve", mock.Anything, "checkout:"+tenantID.String()+":order-1", cartTestIdempotencyTTL).Return(true, nil)
	f.tenants.On("FindByID", mock.Anything, tenantID).Return(f.tenant, nil)
	f.expectCart()
	f.customers.On("FindByIDForTenant", mock.Anything, tenantID, f.customer.ID).Return(f.customer, nil)
	f.products.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{f.product.ID}).Return([]catalog.Product{*f.product}, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)
	f.warehouses.On("FindDefault", mock.Anything, tenantID).Return(nil, shared.ErrNotFound)
	f.products.On("DecrementStock", mock.Anything, tenantID, f.product.ID, 3).Return(2, nil)
	f.movements.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ms []*inventory.StockMovement) bool {
		return len(ms) == 1 && ms[0].Quantity == -3 && ms[0].WarehouseID == nil &&
			ms[0].CreatedBy != nil && *ms[0].CreatedBy == testutil.TestUserID()
	})).Return(nil)
	f.carts.On("Save", mock.Anything, f.cart).Return(nil)

	tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/checkout"),
		gin.H{"tax_rate": "0.1", "shipping_address": "1 Main St"},
		map[string]string{IdempotencyKeyHeader: "  order-1  "})

	require.Equal(t, http.StatusCreated, tc.Recorder.Code, tc.Recorder.Body.String())
	order := decodeOrder(t, tc)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "30", order.Subtotal.String())
	assert.Equal(t, "33", order.Total.String())
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	require.NotNil(t, order.CartID)
	assert.Equal(t, f.cart.ID, *order.CartID)
	assert.Equal(t, trade.CartStatusCheckedOut, f.cart.Status)
	assert.Contains(t, f.publisher.Types(), trade.EventTypeOrderPlaced)
	f.movements.AssertExpectations(t)
	f.idem.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCartHandler_Checkout_Rejections(t *testing.T) {
	tenantID := testutil.TestTenantID()

	t.Run("duplicate key", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		f.fillCart(t, 1)
		f.idem.On("Reserve", mock.Anything, mock.Anything, cartTestIdempotencyTTL).Return(false, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/checkout"), nil,
			map[string]string{IdempotencyKeyHeader: "order-1"})

		assert.Equal(t, http.StatusConflict, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_DUPLICATE_REQUEST")
		f.tenants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("key too long", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/checkout"), nil,
			map[string]string{IdempotencyKeyHeader: strings.Repeat("k", maxIdempotencyKeyLength+1)})

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
		f.idem.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock releases key", func(t *testing.T) {
		f := newCartHandlerFixture(t, 2)
		f.fillCart(t, 3)
		key := "checkout:" + tenantID.String() + ":order-2"
		f.idem.On("Reserve", mock.Anything, key, cartTestIdempotencyTTL).Return(true, nil)
		f.idem.On("Release", mock.Anything, key).Return(nil)
		f.tenants.On("FindByID", mock.Anything, tenantID).Return(f.tenant, nil)
		f.expectCart()
		f.customers.On("FindByIDForTenant", mock.Anything, tenantID, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{f.product.ID}).Return([]catalog.Product{*f.product}, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/checkout"), nil,
			map[string]string{IdempotencyKeyHeader: "order-2"})

		assert.Equal(t, http.StatusUnprocessableEntity, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_INSUFFICIENT_STOCK")
		f.idem.AssertCalled(t, "Release", mock.Anything, key)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Equal(t, trade.CartStatusOpen, f.cart.Status)
	})

	t.Run("empty cart without key", func(t *testing.T) {
		f := newCartHandlerFixture(t, 5)
		f.tenants.On("FindByID", mock.Anything, tenantID).Return(f.tenant, nil)
		f.expectCart()

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, f.cartPath("/checkout"), nil, nil)

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, "ERR_CART_EMPTY")
		f.idem.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
	})
}
