package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	}
	return false
}

// OrderItem is an immutable line of a placed order
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU       string          `gorm:"column:sku;type:varchar(50);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Order is a customer's purchase produced by checking out a cart
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string          `gorm:"type:varchar(50);not null;index"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CartID          *uuid.UUID      `gorm:"type:uuid"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Tax             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingAddress string          `gorm:"type:text"`
	Notes           string          `gorm:"type:text"`
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string      `gorm:"type:varchar(500)"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// GenerateOrderNumber returns ORD-YYYYMMDD-XXXXXXXX for the given time
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func NewOrder(tenantID, customerID uuid.UUID, currency string) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         GenerateOrderNumber(time.Now()),
		CustomerID:          customerID,
		Status:              OrderStatusPending,
		Currency:            strings.ToUpper(currency),
		Subtotal:            decimal.Zero,
		Discount:            decimal.Zero,
		Tax:                 decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]OrderItem, 0),
	}, nil
}

// AddLine appends a line priced at unitPrice and refreshes the subtotal
func (o *Order) AddLine(productID uuid.UUID, sku, name string, unitPrice decimal.Decimal, quantity int) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidState
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	o.Items = append(o.Items, OrderItem{
		ID:        uuid.New(),
		TenantID:  o.TenantID,
		OrderID:   o.ID,
		ProductID: productID,
		SKU:       sku,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		CreatedAt: time.Now(),
	})
	o.recalculate()
	return nil
}

// ApplyPricing sets the discount and a tax rate applied to (subtotal - discount).
// Tax is rounded to cents.
func (o *Order) ApplyPricing(discount, taxRate decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	o.Discount = discount.Round(2)
	o.Tax = o.Subtotal.Sub(o.Discount).Mul(taxRate).Round(2)
	o.Total = o.Subtotal.Sub(o.Discount).Add(o.Tax)
	return nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].LineTotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Sub(o.Discount).Add(o.Tax)
}

// Place finalises a freshly built order and raises OrderPlaced
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

func (o *Order) MarkPaid() error {
	if err := o.transition(OrderStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	o.PaidAt = &now
	return nil
}

func (o *Order) Ship() error {
	if err := o.transition(OrderStatusShipped); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	return nil
}

func (o *Order) Deliver() error {
	if err := o.transition(OrderStatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	return nil
}

// Cancel moves a pending or paid order to cancelled. Restocking is the caller's job.
func (o *Order) Cancel(reason string) error {
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

func (o *Order) transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.MarkModified()
	return nil
}

func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
