package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageStorage issues presigned URLs for product images
type ImageStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
}

var (
	ErrNoImage      = shared.NewDomainError("NOT_FOUND", "Product has no image")
	ErrDuplicateSKU = shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProductService handles product catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	reviewRepo  review.ReviewRepository
	images      ImageStorage
	publisher   shared.EventPublisher
	urlExpiry   time.Duration
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. urlExpiry bounds presigned URLs.
func NewProductService(
	productRepo catalog.ProductRepository,
	reviewRepo review.ReviewRepository,
	images ImageStorage,
	publisher shared.EventPublisher,
	urlExpiry time.Duration,
	logger *zap.Logger,
) *ProductService {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &ProductService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		images:      images,
		publisher:   publisher,
		urlExpiry:   urlExpiry,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := newProductFromRequest(tenantID, req)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSKU
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product.PullDomainEvents()...)

	response := ToProductResponse(product)
	return &response, nil
}

func newProductFromRequest(tenantID uuid.UUID, req CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(product.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CompareAtPrice != nil {
		if err := product.SetPricing(product.Price, req.CompareAtPrice); err != nil {
			return nil, err
		}
	}
	if err := product.SetLowStockThreshold(req.LowStockThreshold); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}
	return product, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, shared.NewDomainError("INVALID_PRICE_RANGE", "min_price cannot exceed max_price")
	}

	domainFilter := filter.ToFilter()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates product details and pricing
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name, description := product.Name, product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil || req.CompareAtPrice != nil {
		price, compareAt := product.Price, product.CompareAtPrice
		if req.Price != nil {
			price = *req.Price
		}
		if req.CompareAtPrice != nil {
			compareAt = req.CompareAtPrice
		}
		if err := product.SetPricing(price, compareAt); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product and its stored image
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	s.dropImage(ctx, product.ImageKey)
	return nil
}

func (s *ProductService) Activate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Activate)
}

func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, tenantID, productID uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// RequestImageUpload assigns a fresh object key to the product and returns a
// presigned PUT URL for it. Any previous image is removed.
func (s *ProductService) RequestImageUpload(ctx context.Context, tenantID, productID uuid.UUID, req ImageUploadRequest) (*ImageURLResponse, error) {
	ext, ok := imageExtensions[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Unsupported image content type")
	}
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenants/%s/products/%s/%s%s", tenantID, productID, uuid.NewString(), ext)
	url, expiresAt, err := s.images.GenerateUploadURL(ctx, key, req.ContentType, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	previous := product.ImageKey
	product.SetImageKey(key)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.dropImage(ctx, previous)

	return &ImageURLResponse{URL: url, Key: key, ExpiresAt: expiresAt}, nil
}

// ImageURL returns a presigned GET URL for the product image
func (s *ProductService) ImageURL(ctx context.Context, tenantID, productID uuid.UUID) (*ImageURLResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product.ImageKey == "" {
		return nil, ErrNoImage
	}

	url, expiresAt, err := s.images.GenerateDownloadURL(ctx, product.ImageKey, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &ImageURLResponse{URL: url, Key: product.ImageKey, ExpiresAt: expiresAt}, nil
}

// Rating returns the average rating and count of approved reviews
func (s *ProductService) Rating(ctx context.Context, tenantID, productID uuid.UUID) (*RatingResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.RatingSummary(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return &RatingResponse{
		ProductID: productID,
		Average:   math.Round(summary.Average*100) / 100,
		Count:     summary.Count,
	}, nil
}

func (s *ProductService) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete product image", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProductService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish product events", zap.Error(err))
	}
}
