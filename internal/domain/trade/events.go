package trade

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderPlacedEvent is published after checkout commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	ItemCount   int             `json:"item_count"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Total:           o.Total,
		Currency:        o.Currency,
		ItemCount:       len(o.Items),
	}
}

type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason,omitempty"`
}

func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Reason:          o.CancelReason,
	}
}
