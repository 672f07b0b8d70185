package trade

import (
	"context"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles the order lifecycle after checkout
type OrderService struct {
	orderRepo trade.OrderRepository
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

func NewOrderService(
	orderRepo trade.OrderRepository,
	txScope appshared.TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := filter.ToFilter()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_CUSTOMER", "customer_id must be a UUID")
		}
		domainFilter.Filters["customer_id"] = customerID
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

func (s *OrderService) Ship(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, tenantID, orderID, (*trade.Order).Ship)
}

func (s *OrderService) Deliver(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, tenantID, orderID, (*trade.Order).Deliver)
}

func (s *OrderService) changeStatus(ctx context.Context, tenantID, orderID uuid.UUID, apply func(*trade.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels a pending or paid order and puts its units back on hand
// with one return movement per line.
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest, cancelledBy *uuid.UUID) (*OrderResponse, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			ids[i] = item.ProductID
		}
		products, err := repos.Products().FindByIDs(ctx, tenantID, ids)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]struct{}, len(products))
		for _, p := range products {
			known[p.ID] = struct{}{}
		}

		warehouseID, err := defaultWarehouseID(ctx, repos.Warehouses(), tenantID)
		if err != nil {
			return err
		}
		movements := make([]*inventory.StockMovement, 0, len(order.Items))
		for _, item := range order.Items {
			// a product deleted since checkout has nothing to restock
			if _, ok := known[item.ProductID]; !ok {
				continue
			}
			after, err := repos.Products().IncrementStock(ctx, tenantID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			before := after - item.Quantity
			movement, err := inventory.NewStockMovement(inventory.MovementInput{
				TenantID:    tenantID,
				WarehouseID: warehouseID,
				ProductID:   item.ProductID,
				Type:        inventory.MovementTypeReturn,
				Quantity:    item.Quantity,
				StockBefore: before,
				Reason:      "order cancelled",
				Reference:   order.OrderNumber,
				CreatedBy:   cancelledBy,
			})
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}
		if len(movements) > 0 {
			if err := repos.Movements().CreateBatch(ctx, movements); err != nil {
				return err
			}
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, order.PullDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	response := ToOrderResponse(order)
	return &response, nil
}
