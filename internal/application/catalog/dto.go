package catalog

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product.
// Products start with zero stock; stock arrives through warehouse adjustments.
type CreateProductRequest struct {
	SKU               string           `json:"sku" binding:"required,min=1,max=50"`
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price"`
	LowStockThreshold int              `json:"low_stock_threshold" binding:"min=0"`
	CreatedBy         *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update a product. Stock is not editable here.
type UpdateProductRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price"`
	LowStockThreshold *int             `json:"low_stock_threshold" binding:"omitempty,min=0"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	appshared.ListQuery
	Status   string           `form:"status" binding:"omitempty,oneof=active inactive archived"`
	MinPrice *decimal.Decimal `form:"min_price"`
	MaxPrice *decimal.Decimal `form:"max_price"`
	InStock  *bool            `form:"in_stock"`
	LowStock bool             `form:"low_stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID        `json:"id"`
	TenantID          uuid.UUID        `json:"tenant_id"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock             int              `json:"stock"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	LowStock          bool             `json:"low_stock"`
	Status            string           `json:"status"`
	HasImage          bool             `json:"has_image"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Version           int              `json:"version"`
}

// ImageUploadRequest asks for a presigned upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// ImageURLResponse carries a presigned URL for the product image
type ImageURLResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RatingResponse summarises approved reviews of a product
type RatingResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Average   float64   `json:"average"`
	Count     int64     `json:"count"`
}

func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Status:            string(p.Status),
		HasImage:          p.ImageKey != "",
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
