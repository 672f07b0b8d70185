package finance

import (
	"context"
	"errors"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAmountMismatch  = shared.NewDomainError("AMOUNT_MISMATCH", "Payment amount must equal the order total")
	ErrOrderNotPayable = shared.NewDomainError("INVALID_STATE", "Only pending orders can be paid")
	ErrAlreadyPaid     = shared.NewDomainError("ALREADY_EXISTS", "Order already has a completed payment")
)

// PaymentService records payments against orders. Completing a payment marks
// its order paid in the same transaction.
type PaymentService struct {
	paymentRepo finance.PaymentRepository
	orderRepo   trade.OrderRepository
	txScope     appshared.TransactionScope
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo finance.PaymentRepository,
	orderRepo trade.OrderRepository,
	txScope appshared.TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create records a pending payment for a pending order
func (s *PaymentService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsPending() {
		return nil, ErrOrderNotPayable
	}
	if !req.Amount.Round(2).Equal(order.Total) {
		return nil, ErrAmountMismatch
	}

	payment, err := finance.NewPayment(tenantID, order.ID, req.Amount, order.Currency, finance.PaymentMethod(req.Method))
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		payment.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *PaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := filter.ToFilter()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Method != "" {
		domainFilter.Filters["method"] = filter.Method
	}
	if filter.OrderID != "" {
		orderID, err := uuid.Parse(filter.OrderID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_ORDER", "order_id must be a UUID")
		}
		domainFilter.Filters["order_id"] = orderID
	}

	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPaymentResponses(payments), total, nil
}

// Complete captures a pending payment and marks its order paid.
// An order accepts at most one completed payment.
func (s *PaymentService) Complete(ctx context.Context, tenantID, paymentID uuid.UUID, req CompletePaymentRequest) (*PaymentResponse, error) {
	var payment *finance.Payment
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		payment, err = repos.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		paid, err := repos.Payments().ExistsCompletedForOrder(ctx, tenantID, payment.OrderID)
		if err != nil {
			return err
		}
		if paid {
			return ErrAlreadyPaid
		}

		order, err := repos.Orders().FindByIDForTenant(ctx, tenantID, payment.OrderID)
		if err != nil {
			return err
		}
		if err := payment.Complete(req.ProviderRef); err != nil {
			return err
		}
		if err := order.MarkPaid(); err != nil {
			return err
		}
		// the partial unique index on completed payments catches a
		// concurrent Complete that passed the check above
		if err := repos.Payments().Save(ctx, payment); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return ErrAlreadyPaid
			}
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, payment.PullDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish payment events", zap.String("payment_id", payment.ID.String()), zap.Error(err))
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *PaymentService) Fail(ctx context.Context, tenantID, paymentID uuid.UUID, req FailPaymentRequest) (*PaymentResponse, error) {
	return s.changeStatus(ctx, tenantID, paymentID, func(p *finance.Payment) error {
		return p.Fail(req.Reason)
	})
}

// Refund marks a completed payment refunded. The order status is left as is.
func (s *PaymentService) Refund(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	return s.changeStatus(ctx, tenantID, paymentID, (*finance.Payment).Refund)
}

func (s *PaymentService) changeStatus(ctx context.Context, tenantID, paymentID uuid.UUID, apply func(*finance.Payment) error) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := apply(payment); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}
