package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	csvimport "github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func csvBody(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestProductService_Import(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates every new product and skips existing skus", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("ExistsBySKU", ctx, tenantID, "TEE-1").Return(false, nil)
		f.products.On("ExistsBySKU", ctx, tenantID, "MUG-1").Return(true, nil)
		f.products.On("ExistsBySKU", ctx, tenantID, "CAP-1").Return(false, nil)

		var saved []*catalog.Product
		f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*catalog.Product)) }).
			Return(nil)

		result, err := f.svc.Import(ctx, tenantID, csvBody(
			"SKU,Name,Price,Compare_At_Price,Low_Stock_Threshold,Description",
			"TEE-1,Plain tee,19.99,24.99,3,Cotton",
			"MUG-1,Mug,8.00,,,",
			"CAP-1,Cap,12.5,,,",
		), ConflictSkip, nil)
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalRows)
		assert.Equal(t, 2, result.ImportedRows)
		assert.Equal(t, 1, result.SkippedRows)
		assert.Zero(t, result.ErrorRows)

		require.Len(t, saved, 2)
		assert.Equal(t, "TEE-1", saved[0].SKU)
		assert.Equal(t, "Cotton", saved[0].Description)
		assert.Equal(t, 3, saved[0].LowStockThreshold)
		require.NotNil(t, saved[0].CompareAtPrice)
		assert.True(t, decimal.RequireFromString("24.99").Equal(*saved[0].CompareAtPrice))
		assert.Equal(t, 0, saved[1].Stock)
		assert.Len(t, f.publisher.Events(), 2)
	})

	t.Run("writes nothing when a row is invalid", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("ExistsBySKU", ctx, tenantID, mock.Anything).Return(false, nil)

		result, err := f.svc.Import(ctx, tenantID, csvBody(
			"sku,name,price",
			"TEE-1,Plain tee,19.99",
			"TEE-2,,5",
			"tee-1,Again,1",
			"TEE-3,Cheap,-1",
		), ConflictSkip, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, result.ImportedRows)
		assert.Equal(t, 3, result.ErrorRows)
		codes := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			codes[i] = e.Code
		}
		assert.Equal(t, []string{csvimport.CodeRequired, csvimport.CodeDuplicateInFile, csvimport.CodeInvalidRange}, codes)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fail mode reports existing skus as errors", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("ExistsBySKU", ctx, tenantID, "TEE-1").Return(true, nil)
		f.products.On("ExistsBySKU", ctx, tenantID, "TEE-2").Return(false, nil)

		result, err := f.svc.Import(ctx, tenantID, csvBody(
			"sku,name,price",
			"TEE-1,Plain tee,19.99",
			"TEE-2,Other tee,9.99",
		), ConflictFail, nil)
		require.NoError(t, err)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, csvimport.CodeDuplicateInDB, result.Errors[0].Code)
		assert.Equal(t, 2, result.Errors[0].Row)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects files without the required columns", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.svc.Import(ctx, tenantID, csvBody("sku,title", "A,B"), ConflictSkip, nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_IMPORT_FILE", domainErr.Code)
		assert.Contains(t, domainErr.Message, "name, price")
	})

	t.Run("rejects a file with invalid utf-8 past the first block", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("ExistsBySKU", ctx, tenantID, mock.Anything).Return(false, nil)
		lines := []string{"sku,name,price"}
		for i := 0; i < 300; i++ {
			lines = append(lines, "SKU-"+strings.Repeat("0", 6)+",Plain tee,1.00")
		}
		lines = append(lines, "BAD-1,caf\xff\xfe,1.00")

		_, err := f.svc.Import(ctx, tenantID, csvBody(lines...), ConflictSkip, nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_IMPORT_FILE", domainErr.Code)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty upload", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.svc.Import(ctx, tenantID, strings.NewReader(""), ConflictSkip, nil)
		assert.ErrorIs(t, err, ErrImportFile)
	})
}
