package inventory

import (
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeSale       MovementType = "sale"
	MovementTypeReturn     MovementType = "return"
)

// IsValid reports whether t is a known movement type
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeSale, MovementTypeReturn:
		return true
	}
	return false
}

// StockMovement is an append-only audit row of a quantity change for a
// warehouse/product pair. Quantity is signed.
type StockMovement struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	WarehouseID *uuid.UUID   `gorm:"type:uuid;index"`
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type        MovementType `gorm:"type:varchar(20);not null"`
	Quantity    int          `gorm:"not null"`
	StockBefore int          `gorm:"not null"`
	StockAfter  int          `gorm:"not null"`
	Reason      string       `gorm:"type:varchar(500)"`
	Reference   string       `gorm:"type:varchar(100);index"`
	CreatedBy   *uuid.UUID   `gorm:"type:uuid"`
	CreatedAt   time.Time    `gorm:"not null"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementInput describes a movement to record
type MovementInput struct {
	TenantID    uuid.UUID
	WarehouseID *uuid.UUID
	ProductID   uuid.UUID
	Type        MovementType
	Quantity    int
	StockBefore int
	Reason      string
	Reference   string
	CreatedBy   *uuid.UUID
}

// NewStockMovement validates in and derives StockAfter from the signed quantity
func NewStockMovement(in MovementInput) (*StockMovement, error) {
	if in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}
	if in.Quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if err := checkDirection(in.Type, in.Quantity); err != nil {
		return nil, err
	}
	after := in.StockBefore + in.Quantity
	if after < 0 {
		return nil, shared.ErrInsufficientStock
	}
	if len(in.Reason) > 500 {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	return &StockMovement{
		ID:          uuid.New(),
		TenantID:    in.TenantID,
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		StockBefore: in.StockBefore,
		StockAfter:  after,
		Reason:      strings.TrimSpace(in.Reason),
		Reference:   in.Reference,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now(),
	}, nil
}

// in/return only add stock, out/sale only remove it, adjustment goes either way
func checkDirection(t MovementType, quantity int) error {
	switch t {
	case MovementTypeIn, MovementTypeReturn:
		if quantity < 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Inbound movements must have a positive quantity")
		}
	case MovementTypeOut, MovementTypeSale:
		if quantity > 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Outbound movements must have a negative quantity")
		}
	}
	return nil
}
