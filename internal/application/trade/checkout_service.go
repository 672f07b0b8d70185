package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns an open cart into a pending order.
// Stock decrement, order creation, movements and closing the cart commit together.
type CheckoutService struct {
	txScope        appshared.TransactionScope
	customerRepo   partner.CustomerRepository
	tenantRepo     identity.TenantRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	publisher      shared.EventPublisher
	logger         *zap.Logger
}

func NewCheckoutService(
	txScope appshared.TransactionScope,
	customerRepo partner.CustomerRepository,
	tenantRepo identity.TenantRepository,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		txScope:        txScope,
		customerRepo:   customerRepo,
		tenantRepo:     tenantRepo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		publisher:      publisher,
		logger:         logger,
	}
}

// Checkout places an order for every line of the cart at current product prices.
// A repeated IdempotencyKey within the TTL fails with ErrDuplicateRequest.
func (s *CheckoutService) Checkout(ctx context.Context, tenantID, cartID uuid.UUID, req CheckoutRequest) (_ *OrderResponse, err error) {
	if req.IdempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("checkout:%s:%s", tenantID, req.IdempotencyKey)
		reserved, reserveErr := s.idempotency.Reserve(ctx, key, s.idempotencyTTL)
		if reserveErr != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", reserveErr)
		}
		if !reserved {
			return nil, shared.ErrDuplicateRequest
		}
		defer func() {
			if err == nil {
				return
			}
			if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
				s.logger.Warn("Failed to release idempotency key",
					zap.String("key", key),
					zap.Error(releaseErr),
				)
			}
		}()
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var (
		order  *trade.Order
		events []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		cart, err := repos.Carts().FindByIDForTenant(ctx, tenantID, cartID)
		if err != nil {
			return err
		}
		if err := cart.EnsureCheckoutable(); err != nil {
			return err
		}
		customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, cart.CustomerID)
		if err != nil {
			return err
		}
		if !customer.IsActive() {
			return ErrCustomerInactive
		}

		products, err := loadProducts(ctx, repos.Products(), tenantID, cart)
		if err != nil {
			return err
		}

		order, err = buildOrder(tenantID, tenant.Currency, cart, products, req)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, order); err != nil {
			return err
		}

		warehouseID, err := defaultWarehouseID(ctx, repos.Warehouses(), tenantID)
		if err != nil {
			return err
		}
		movements := make([]*inventory.StockMovement, 0, len(order.Items))
		for _, item := range order.Items {
			product := products[item.ProductID]
			after, err := repos.Products().DecrementStock(ctx, tenantID, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			before := product.RecordStockChange(after, -item.Quantity)
			movement, err := inventory.NewStockMovement(inventory.MovementInput{
				TenantID:    tenantID,
				WarehouseID: warehouseID,
				ProductID:   product.ID,
				Type:        inventory.MovementTypeSale,
				Quantity:    -item.Quantity,
				StockBefore: before,
				Reason:      "checkout",
				Reference:   order.OrderNumber,
				CreatedBy:   req.CreatedBy,
			})
			if err != nil {
				return err
			}
			movements = append(movements, movement)
			events = append(events, product.PullDomainEvents()...)
		}
		if err := repos.Movements().CreateBatch(ctx, movements); err != nil {
			return err
		}

		if err := cart.MarkCheckedOut(); err != nil {
			return err
		}
		return repos.Carts().Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}

	events = append(order.PullDomainEvents(), events...)
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish checkout events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Order placed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()),
	)
	response := ToOrderResponse(order)
	return &response, nil
}

func loadProducts(ctx context.Context, repo catalog.ProductRepository, tenantID uuid.UUID, cart *trade.Cart) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}
	found, err := repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		products[found[i].ID] = &found[i]
	}
	return products, nil
}

// buildOrder reprices every cart line from the loaded products and checks availability
func buildOrder(tenantID uuid.UUID, currency string, cart *trade.Cart, products map[uuid.UUID]*catalog.Product, req CheckoutRequest) (*trade.Order, error) {
	order, err := trade.NewOrder(tenantID, cart.CustomerID, currency)
	if err != nil {
		return nil, err
	}
	order.CartID = &cart.ID
	order.ShippingAddress = req.ShippingAddress
	order.Notes = req.Notes
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, shared.NotFound("Product")
		}
		if !product.IsActive() {
			return nil, ErrProductInactive
		}
		if !product.CanFulfil(item.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
		if err := order.AddLine(product.ID, product.SKU, product.Name, product.Price, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := order.ApplyPricing(req.Discount, req.TaxRate); err != nil {
		return nil, err
	}
	if err := order.Place(); err != nil {
		return nil, err
	}
	return order, nil
}

// defaultWarehouseID returns nil when the tenant has no default warehouse
func defaultWarehouseID(ctx context.Context, repo partner.WarehouseRepository, tenantID uuid.UUID) (*uuid.UUID, error) {
	warehouse, err := repo.FindDefault(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &warehouse.ID, nil
}
