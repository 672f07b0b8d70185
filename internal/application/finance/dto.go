package finance

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a pending payment for an order.
// Amount must equal the order total; currency follows the order.
type CreatePaymentRequest struct {
	OrderID   uuid.UUID       `json:"order_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,oneof=card bank_transfer cash wallet"`
	CreatedBy *uuid.UUID      `json:"-"`
}

type CompletePaymentRequest struct {
	ProviderRef string `json:"provider_ref" binding:"max=200"`
}

type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	appshared.ListQuery
	Status  string `form:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	OrderID string `form:"order_id" binding:"omitempty,uuid"`
	Method  string `form:"method" binding:"omitempty,oneof=card bank_transfer cash wallet"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	ProviderRef   string          `json:"provider_ref,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        string(p.Method),
		Status:        string(p.Status),
		ProviderRef:   p.ProviderRef,
		FailureReason: p.FailureReason,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToPaymentResponses(payments []finance.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
