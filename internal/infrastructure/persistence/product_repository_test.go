package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, repo *GormProductRepository, tenantID uuid.UUID, sku string, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, sku, "Product "+sku, decimal.NewFromFloat(9.99))
	require.NoError(t, err)
	product.Stock = stock
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepository_TenantIsolation(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	product := seedProduct(t, repo, tenantA, "SKU-A", 5)
	seedProduct(t, repo, tenantB, "SKU-B", 5)

	_, err := repo.FindByIDForTenant(ctx, tenantB, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	found, err := repo.FindByIDForTenant(ctx, tenantA, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-A", found.SKU)

	count, err := repo.CountForTenant(ctx, tenantA, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = repo.DeleteForTenant(ctx, tenantB, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindAllForTenant(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	seedProduct(t, repo, tenantID, "MUG-1", 1)
	seedProduct(t, repo, tenantID, "MUG-2", 50)
	seedProduct(t, repo, tenantID, "HAT-1", 50)

	filter := shared.DefaultFilter()
	filter.Search = "mug"
	products, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	filter = shared.DefaultFilter()
	filter.PageSize = 2
	filter.OrderBy = "sku"
	filter.OrderDir = "asc"
	products, err = repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "HAT-1", products[0].SKU)

	filter.OrderBy = "name; DROP TABLE products"
	_, err = repo.FindAllForTenant(ctx, tenantID, filter)
	assert.NoError(t, err, "unknown sort fields fall back to the default")
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, repo, tenantID, "SKU-1", 3)

	level, err := repo.DecrementStock(ctx, tenantID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)
	assert.Equal(t, product.Version+1, reloaded.Version)

	_, err = repo.DecrementStock(ctx, tenantID, product.ID, 2)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	_, err = repo.DecrementStock(ctx, uuid.New(), product.ID, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.DecrementStock(ctx, tenantID, product.ID, 0)
	var domainErr *shared.DomainError
	assert.True(t, errors.As(err, &domainErr))
}

func TestGormProductRepository_IncrementAndAdjustStock(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, repo, tenantID, "SKU-1", 0)

	level, err := repo.IncrementStock(ctx, tenantID, product.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, level)

	level, err = repo.AdjustStock(ctx, tenantID, product.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 4, level)
	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Stock)

	_, err = repo.AdjustStock(ctx, tenantID, product.ID, -5)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	_, err = repo.AdjustStock(ctx, tenantID, product.ID, 0)
	var domainErr *shared.DomainError
	assert.True(t, errors.As(err, &domainErr))
	_, err = repo.IncrementStock(ctx, tenantID, uuid.New(), 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// Adjustments are applied relative to the stored level, so a sale committed
// between reading a product and adjusting it is not overwritten.
func TestGormProductRepository_AdjustStockComposesWithConcurrentSale(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, repo, tenantID, "SKU-1", 10)

	stale, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	require.Equal(t, 10, stale.Stock)

	_, err = repo.DecrementStock(ctx, tenantID, product.ID, 3)
	require.NoError(t, err)

	level, err := repo.AdjustStock(ctx, tenantID, stale.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, level)

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, reloaded.Stock)
}

func TestGormProductRepository_DuplicateSKU(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX idx_products_tenant_sku ON products (tenant_id, sku)").Error)
	repo := NewGormProductRepository(db)
	tenantID := uuid.New()
	seedProduct(t, repo, tenantID, "DUP", 1)

	dup, err := catalog.NewProduct(tenantID, "DUP", "Other", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(context.Background(), dup), shared.ErrAlreadyExists)

	exists, err := repo.ExistsBySKU(context.Background(), tenantID, "dup")
	require.NoError(t, err)
	assert.True(t, exists)
}
