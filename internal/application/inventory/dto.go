package inventory

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/google/uuid"
)

// AdjustStockRequest moves stock of one product through a warehouse.
// Quantity is signed; Type defaults to adjustment.
type AdjustStockRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	Quantity  int        `json:"quantity" binding:"required,ne=0"`
	Type      string     `json:"type" binding:"omitempty,oneof=in out adjustment"`
	Reason    string     `json:"reason" binding:"required,max=500"`
	Reference string     `json:"reference" binding:"max=100"`
	CreatedBy *uuid.UUID `json:"-"`
}

// MovementListFilter represents filter options for a warehouse's movement history
type MovementListFilter struct {
	appshared.ListQuery
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	Type      string `form:"type" binding:"omitempty,oneof=in out adjustment sale return"`
}

// StockMovementResponse represents a stock movement in API responses
type StockMovementResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
	ProductID   uuid.UUID  `json:"product_id"`
	Type        string     `json:"type"`
	Quantity    int        `json:"quantity"`
	StockBefore int        `json:"stock_before"`
	StockAfter  int        `json:"stock_after"`
	Reason      string     `json:"reason,omitempty"`
	Reference   string     `json:"reference,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:          m.ID,
		TenantID:    m.TenantID,
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		Reference:   m.Reference,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func ToStockMovementResponses(movements []inventory.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses
}
