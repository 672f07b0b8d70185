package finance

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypePayment = "Payment"

const EventTypePaymentCompleted = "PaymentCompleted"

type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
}

func NewPaymentCompletedEvent(p *Payment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, p.ID, p.TenantID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}
