package inventory

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeStockMovement = "StockMovement"

	EventTypeStockAdjusted = "StockAdjusted"
)

// StockAdjustedEvent is published after a manual warehouse adjustment commits
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID    `json:"warehouse_id"`
	ProductID   uuid.UUID    `json:"product_id"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	StockAfter  int          `json:"stock_after"`
}

func NewStockAdjustedEvent(m *StockMovement) *StockAdjustedEvent {
	var warehouseID uuid.UUID
	if m.WarehouseID != nil {
		warehouseID = *m.WarehouseID
	}
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockMovement, m.ID, m.TenantID),
		WarehouseID:     warehouseID,
		ProductID:       m.ProductID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		StockAfter:      m.StockAfter,
	}
}
