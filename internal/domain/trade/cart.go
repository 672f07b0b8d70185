package trade

import (
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStatus represents the status of a cart
type CartStatus string

const (
	CartStatusOpen       CartStatus = "open"
	CartStatusCheckedOut CartStatus = "checked_out"
)

// MaxCartLineQuantity bounds a single line to keep totals sane
const MaxCartLineQuantity = 10000

var (
	ErrCartEmpty      = shared.NewDomainError("CART_EMPTY", "Cart has no items")
	ErrCartClosed     = shared.NewDomainError("CART_CLOSED", "Cart has already been checked out")
	ErrCartItemAbsent = shared.NewDomainError("NOT_FOUND", "Cart item not found")
)

// CartItem is a product line in a cart. UnitPrice is the price when the line was added.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is UnitPrice times Quantity
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds a customer's pending purchase. A customer has at most one open cart.
type Cart struct {
	shared.TenantAggregateRoot
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status     CartStatus `gorm:"type:varchar(20);not null;default:'open'"`
	Items      []CartItem `gorm:"foreignKey:CartID"`
}

func (Cart) TableName() string {
	return "carts"
}

func NewCart(tenantID, customerID uuid.UUID) (*Cart, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	return &Cart{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Status:              CartStatusOpen,
		Items:               make([]CartItem, 0),
	}, nil
}

// AddItem adds quantity of a product at unitPrice, merging into an existing line.
// The merged line takes the newer price.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*CartItem, error) {
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	if item := c.FindItemByProduct(productID); item != nil {
		if err := validateQuantity(item.Quantity + quantity); err != nil {
			return nil, err
		}
		item.Quantity += quantity
		item.UnitPrice = unitPrice
		item.UpdatedAt = now
		c.MarkModified()
		return item, nil
	}

	c.Items = append(c.Items, CartItem{
		ID:        uuid.New(),
		TenantID:  c.TenantID,
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.MarkModified()
	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of a line; zero removes it
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if quantity == 0 {
		return c.RemoveItem(itemID)
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	item := c.FindItem(itemID)
	if item == nil {
		return ErrCartItemAbsent
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	c.MarkModified()
	return nil
}

func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.MarkModified()
			return nil
		}
	}
	return ErrCartItemAbsent
}

func (c *Cart) Clear() error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	c.Items = make([]CartItem, 0)
	c.MarkModified()
	return nil
}

// MarkCheckedOut empties the cart and closes it
func (c *Cart) MarkCheckedOut() error {
	if err := c.EnsureCheckoutable(); err != nil {
		return err
	}
	c.Items = make([]CartItem, 0)
	c.Status = CartStatusCheckedOut
	c.MarkModified()
	return nil
}

// EnsureCheckoutable fails for closed or empty carts
func (c *Cart) EnsureCheckoutable() error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if len(c.Items) == 0 {
		return ErrCartEmpty
	}
	return nil
}

func (c *Cart) FindItem(itemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) FindItemByProduct(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Subtotal sums the line totals at their snapshot prices
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// ItemCount is the number of units across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

func (c *Cart) IsOpen() bool {
	return c.Status == CartStatusOpen
}

func (c *Cart) ensureOpen() error {
	if !c.IsOpen() {
		return ErrCartClosed
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > MaxCartLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line maximum")
	}
	return nil
}
