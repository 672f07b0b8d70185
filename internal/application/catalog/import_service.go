package catalog

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	csvimport "github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxImportRows   = 5000
	maxImportErrors = 100
)

// ConflictMode decides what happens to rows whose SKU already exists
type ConflictMode string

const (
	// ConflictSkip leaves existing products untouched and imports the rest
	ConflictSkip ConflictMode = "skip"
	// ConflictFail rejects the whole file when any SKU already exists
	ConflictFail ConflictMode = "fail"
)

var ErrImportFile = shared.NewDomainError("INVALID_IMPORT_FILE", "Import file cannot be read")

var productImportRules = func() []csvimport.Rule {
	zero := decimal.Zero
	return []csvimport.Rule{
		{Column: "sku", Required: true, MaxLength: 50, Unique: true},
		{Column: "name", Required: true, MaxLength: 200},
		{Column: "description", MaxLength: 5000},
		{Column: "price", Kind: csvimport.KindDecimal, Required: true, Min: &zero},
		{Column: "compare_at_price", Kind: csvimport.KindDecimal, Min: &zero},
		{Column: "low_stock_threshold", Kind: csvimport.KindInt, Min: &zero},
	}
}()

// ImportResult summarises a catalog import
type ImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	Truncated    bool                 `json:"truncated,omitempty"`
}

// Import creates products from a CSV with the columns sku, name and price,
// plus optional description, compare_at_price and low_stock_threshold.
// Nothing is written when any row fails validation. Imported products start
// with zero stock like any other new product.
func (s *ProductService) Import(ctx context.Context, tenantID uuid.UUID, src io.Reader, mode ConflictMode, createdBy *uuid.UUID) (*ImportResult, error) {
	if mode == "" {
		mode = ConflictSkip
	}

	reader, err := csvimport.NewReader(src, csvimport.WithMaxRows(maxImportRows))
	if err != nil {
		return nil, importFileError(err)
	}
	if missing := reader.Missing("sku", "name", "price"); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE", "Missing required columns: "+strings.Join(missing, ", "))
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, importFileError(err)
	}

	errs := csvimport.NewErrors(maxImportErrors)
	validator := csvimport.NewValidator(errs, productImportRules...)
	pending := make([]*csvimport.Row, 0, len(rows))
	result := &ImportResult{TotalRows: len(rows)}

	for _, row := range rows {
		if !validator.Check(row) {
			continue
		}
		exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, row.Get("sku"))
		if err != nil {
			return nil, err
		}
		if exists {
			if mode == ConflictFail {
				errs.Add(csvimport.RowError{Row: row.Line, Column: "sku", Code: csvimport.CodeDuplicateInDB, Message: "SKU already exists", Value: row.Get("sku")})
			} else {
				result.SkippedRows++
			}
			continue
		}
		pending = append(pending, row)
	}

	products := make([]*catalog.Product, 0, len(pending))
	for _, row := range pending {
		req := rowToRequest(row)
		req.CreatedBy = createdBy
		product, err := newProductFromRequest(tenantID, req)
		if err != nil {
			errs.Add(csvimport.RowError{Row: row.Line, Code: csvimport.CodeRejected, Message: err.Error()})
			continue
		}
		products = append(products, product)
	}

	if errs.Total() > 0 {
		result.ErrorRows = errs.FailedRows()
		result.Errors = errs.Items()
		result.Truncated = errs.Truncated()
		return result, nil
	}

	for _, product := range products {
		if err := s.productRepo.Save(ctx, product); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				// created concurrently since the existence check
				result.SkippedRows++
				continue
			}
			return result, err
		}
		result.ImportedRows++
		s.publish(ctx, product.PullDomainEvents()...)
	}

	s.logger.Info("Products imported",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("imported", result.ImportedRows),
		zap.Int("skipped", result.SkippedRows),
	)
	return result, nil
}

func rowToRequest(row *csvimport.Row) CreateProductRequest {
	req := CreateProductRequest{
		SKU:         row.Get("sku"),
		Name:        row.Get("name"),
		Description: row.Get("description"),
		Price:       decimal.RequireFromString(row.Get("price")),
	}
	if v := row.Get("compare_at_price"); v != "" {
		d := decimal.RequireFromString(v)
		req.CompareAtPrice = &d
	}
	if v := row.Get("low_stock_threshold"); v != "" {
		req.LowStockThreshold, _ = strconv.Atoi(v)
	}
	return req
}

func importFileError(err error) error {
	return shared.NewDomainError(ErrImportFile.Code, ErrImportFile.Message+": "+err.Error())
}
