package finance

import (
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodWallet       PaymentMethod = "wallet"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodWallet:
		return true
	}
	return false
}

// Payment records money collected against an order
type Payment struct {
	shared.TenantAggregateRoot
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	ProviderRef   string          `gorm:"type:varchar(200)"`
	FailureReason string          `gorm:"type:varchar(500)"`
	PaidAt        *time.Time
	RefundedAt    *time.Time
}

func (Payment) TableName() string {
	return "payments"
}

func NewPayment(tenantID, orderID uuid.UUID, amount decimal.Decimal, currency string, method PaymentMethod) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unsupported payment method")
	}
	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		Amount:              amount.Round(2),
		Currency:            strings.ToUpper(currency),
		Method:              method,
		Status:              PaymentStatusPending,
	}, nil
}

// Complete marks the payment as captured with an optional provider reference
func (p *Payment) Complete(providerRef string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be completed")
	}
	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.ProviderRef = providerRef
	p.PaidAt = &now
	p.MarkModified()
	p.AddDomainEvent(NewPaymentCompletedEvent(p))
	return nil
}

func (p *Payment) Fail(reason string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can fail")
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.MarkModified()
	return nil
}

func (p *Payment) Refund() error {
	if p.Status != PaymentStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only completed payments can be refunded")
	}
	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundedAt = &now
	p.MarkModified()
	return nil
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
