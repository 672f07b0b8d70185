package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockImageStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type productFixture struct {
	svc       *ProductService
	products  *testutil.MockProductRepository
	reviews   *testutil.MockReviewRepository
	images    *MockImageStorage
	publisher *testutil.RecordingPublisher
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:  new(testutil.MockProductRepository),
		reviews:   new(testutil.MockReviewRepository),
		images:    new(MockImageStorage),
		publisher: &testutil.RecordingPublisher{},
	}
	f.svc = NewProductService(f.products, f.reviews, f.images, f.publisher, 10*time.Minute, zap.NewNop())
	return f
}

func newTestProduct(t *testing.T, tenantID uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, "SKU-1", "Widget", decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	p.PullDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates product and publishes event", func(t *testing.T) {
		f := newProductFixture()
		compareAt := decimal.RequireFromString("25")
		f.products.On("ExistsBySKU", ctx, tenantID, "ABC-1").Return(false, nil)
		f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, CreateProductRequest{
			SKU:               "abc-1",
			Name:              "Widget",
			Price:             decimal.RequireFromString("19.999"),
			CompareAtPrice:    &compareAt,
			LowStockThreshold: 5,
		})

		require.NoError(t, err)
		assert.Equal(t, "ABC-1", resp.SKU)
		assert.Equal(t, "20", resp.Price.String())
		assert.Equal(t, 0, resp.Stock)
		assert.True(t, resp.LowStock)
		assert.Equal(t, []string{catalog.EventTypeProductCreated}, f.publisher.Types())
	})

	t.Run("duplicate sku", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("ExistsBySKU", ctx, tenantID, "ABC-1").Return(true, nil)

		_, err := f.svc.Create(ctx, tenantID, CreateProductRequest{SKU: "ABC-1", Name: "Widget", Price: decimal.NewFromInt(1)})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("non positive price", func(t *testing.T) {
		f := newProductFixture()

		_, err := f.svc.Create(ctx, tenantID, CreateProductRequest{SKU: "ABC-1", Name: "Widget", Price: decimal.Zero})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	})
}

func TestProductService_UpdateKeepsStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newProductFixture()
	product := newTestProduct(t, tenantID)
	product.Stock = 7
	price := decimal.RequireFromString("9.50")
	name := "Widget Pro"

	f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	f.products.On("Save", ctx, product).Return(nil)

	resp, err := f.svc.Update(ctx, tenantID, product.ID, UpdateProductRequest{Name: &name, Price: &price})

	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", resp.Name)
	assert.True(t, resp.Price.Equal(price))
	assert.Equal(t, 7, resp.Stock)
}

func TestProductService_ListFilters(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("maps query onto repository filter", func(t *testing.T) {
		f := newProductFixture()
		inStock := true
		minPrice := decimal.NewFromInt(5)
		matchFilter := mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "active" &&
				filter.Filters["in_stock"] == true &&
				filter.Filters["min_price"].(decimal.Decimal).Equal(minPrice)
		})
		f.products.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]catalog.Product{*newTestProduct(t, tenantID)}, nil)
		f.products.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(1), nil)

		products, total, err := f.svc.List(ctx, tenantID, ProductListFilter{Status: "active", InStock: &inStock, MinPrice: &minPrice})

		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("inverted price range", func(t *testing.T) {
		f := newProductFixture()
		lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(1)

		_, _, err := f.svc.List(ctx, tenantID, ProductListFilter{MinPrice: &lo, MaxPrice: &hi})

		require.Error(t, err)
		f.products.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_RequestImageUpload(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newProductFixture()
	product := newTestProduct(t, tenantID)
	product.ImageKey = "tenants/old.png"
	expires := time.Now().Add(10 * time.Minute)

	f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	f.images.On("GenerateUploadURL", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "tenants/"+tenantID.String()+"/products/"+product.ID.String()) && strings.HasSuffix(key, ".png")
	}), "image/png", 10*time.Minute).Return("https://s3.local/upload", expires, nil)
	f.products.On("Save", ctx, product).Return(nil)
	f.images.On("DeleteObject", ctx, "tenants/old.png").Return(errors.New("gone"))

	resp, err := f.svc.RequestImageUpload(ctx, tenantID, product.ID, ImageUploadRequest{ContentType: "image/png"})

	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/upload", resp.URL)
	assert.Equal(t, product.ImageKey, resp.Key)
	f.images.AssertExpectations(t)
}

func TestProductService_ImageURL(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("no image", func(t *testing.T) {
		f := newProductFixture()
		product := newTestProduct(t, tenantID)
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		_, err := f.svc.ImageURL(ctx, tenantID, product.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("presigns download", func(t *testing.T) {
		f := newProductFixture()
		product := newTestProduct(t, tenantID)
		product.ImageKey = "tenants/x.jpg"
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		f.images.On("GenerateDownloadURL", ctx, "tenants/x.jpg", 10*time.Minute).Return("https://s3.local/get", time.Now(), nil)

		resp, err := f.svc.ImageURL(ctx, tenantID, product.ID)

		require.NoError(t, err)
		assert.Equal(t, "https://s3.local/get", resp.URL)
	})
}

func TestProductService_Rating(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newProductFixture()
	product := newTestProduct(t, tenantID)

	f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	f.reviews.On("RatingSummary", ctx, tenantID, product.ID).Return(&review.RatingSummary{ProductID: product.ID, Average: 4.3333, Count: 3}, nil)

	resp, err := f.svc.Rating(ctx, tenantID, product.ID)

	require.NoError(t, err)
	assert.Equal(t, 4.33, resp.Average)
	assert.Equal(t, int64(3), resp.Count)
}

func TestProductService_DeactivateTwice(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newProductFixture()
	product := newTestProduct(t, tenantID)

	f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	f.products.On("Save", ctx, product).Return(nil)

	resp, err := f.svc.Deactivate(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = f.svc.Deactivate(ctx, tenantID, product.ID)
	require.Error(t, err)
}
