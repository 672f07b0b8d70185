package trade

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCartRequest opens a cart for a customer
type CreateCartRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// AddCartItemRequest adds units of a product to a cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=10000"`
}

// UpdateCartItemRequest sets a line quantity. Zero removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=10000"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	TenantID   uuid.UUID          `json:"tenant_id"`
	CustomerID uuid.UUID          `json:"customer_id"`
	Status     string             `json:"status"`
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// CheckoutRequest converts a cart into an order.
// IdempotencyKey is taken from the Idempotency-Key header.
type CheckoutRequest struct {
	Discount        decimal.Decimal `json:"discount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	ShippingAddress string          `json:"shipping_address" binding:"max=1000"`
	Notes           string          `json:"notes" binding:"max=2000"`
	IdempotencyKey  string          `json:"-"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// CancelOrderRequest cancels a pending or paid order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	appshared.ListQuery
	Status     string `form:"status" binding:"omitempty,oneof=pending paid shipped delivered cancelled"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	CartID          *uuid.UUID          `json:"cart_id,omitempty"`
	Status          string              `json:"status"`
	Currency        string              `json:"currency"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Discount        decimal.Decimal     `json:"discount"`
	Tax             decimal.Decimal     `json:"tax"`
	Total           decimal.Decimal     `json:"total"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func ToCartResponse(c *trade.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		items[i] = CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		}
	}
	return CartResponse{
		ID:         c.ID,
		TenantID:   c.TenantID,
		CustomerID: c.CustomerID,
		Status:     string(c.Status),
		Items:      items,
		ItemCount:  c.ItemCount(),
		Subtotal:   c.Subtotal(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		TenantID:        o.TenantID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CartID:          o.CartID,
		Status:          string(o.Status),
		Currency:        o.Currency,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Tax:             o.Tax,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           items,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
