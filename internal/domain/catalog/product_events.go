package catalog

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeStockLow       = "StockLow"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// StockLowEvent is published when stock drops to or below the low-stock threshold
type StockLowEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

func NewStockLowEvent(p *Product) *StockLowEvent {
	return &StockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLow, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Stock:           p.Stock,
		Threshold:       p.LowStockThreshold,
	}
}
