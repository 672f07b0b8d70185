package catalog

import (
	"regexp"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Product is a sellable item of a tenant catalog.
// Stock is the on-hand quantity across all warehouses.
type Product struct {
	shared.TenantAggregateRoot
	SKU               string           `gorm:"column:sku;type:varchar(50);not null;index"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Description       string           `gorm:"type:text"`
	Price             decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CompareAtPrice    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Stock             int              `gorm:"not null;default:0"`
	LowStockThreshold int              `gorm:"not null;default:0"`
	Status            ProductStatus    `gorm:"type:varchar(20);not null;default:'active'"`
	ImageKey          string           `gorm:"type:varchar(500)"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product with zero stock
func NewProduct(tenantID uuid.UUID, sku, name string, price decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                strings.TrimSpace(name),
		Price:               price.Round(2),
		Status:              ProductStatusActive,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.MarkModified()
	return nil
}

// SetPricing sets the selling price and optional compare-at price
func (p *Product) SetPricing(price decimal.Decimal, compareAt *decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if compareAt != nil && compareAt.LessThan(price) {
		return shared.NewDomainError("INVALID_COMPARE_AT_PRICE", "Compare-at price cannot be lower than price")
	}
	p.Price = price.Round(2)
	if compareAt != nil {
		rounded := compareAt.Round(2)
		compareAt = &rounded
	}
	p.CompareAtPrice = compareAt
	p.MarkModified()
	return nil
}

func (p *Product) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	p.LowStockThreshold = threshold
	p.MarkModified()
	return nil
}

func (p *Product) SetImageKey(key string) {
	p.ImageKey = key
	p.MarkModified()
}

func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.MarkModified()
	return nil
}

func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.MarkModified()
	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// CanFulfil reports whether quantity units are on hand
func (p *Product) CanFulfil(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// RecordStockChange takes the level the store reports after moving stock by
// delta and returns the level before the move. Stock is changed in storage
// with a relative update, never written back from this copy.
func (p *Product) RecordStockChange(after, delta int) int {
	p.Stock = after
	p.MarkModified()
	if delta < 0 && p.IsLowStock() {
		p.AddDomainEvent(NewStockLowEvent(p))
	}
	return after - delta
}

// IsLowStock reports whether stock is at or below the configured threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	if !skuPattern.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	return nil
}
