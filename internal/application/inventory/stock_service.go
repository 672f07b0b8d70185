package inventory

import (
	"context"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService records manual stock changes against a warehouse
type StockService struct {
	txScope       appshared.TransactionScope
	warehouseRepo partner.WarehouseRepository
	movementRepo  inventory.StockMovementRepository
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

func NewStockService(
	txScope appshared.TransactionScope,
	warehouseRepo partner.WarehouseRepository,
	movementRepo inventory.StockMovementRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		txScope:       txScope,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// Adjust applies a signed quantity to the product's on-hand stock and records
// the movement. Stock may not go below zero.
func (s *StockService) Adjust(ctx context.Context, tenantID, warehouseID uuid.UUID, req AdjustStockRequest) (*StockMovementResponse, error) {
	movementType := inventory.MovementTypeAdjustment
	if req.Type != "" {
		movementType = inventory.MovementType(req.Type)
	}

	var (
		movement *inventory.StockMovement
		events   []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		warehouse, err := repos.Warehouses().FindByIDForTenant(ctx, tenantID, warehouseID)
		if err != nil {
			return err
		}
		if err := warehouse.EnsureOperational(); err != nil {
			return err
		}
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, req.ProductID)
		if err != nil {
			return err
		}

		after, err := repos.Products().AdjustStock(ctx, tenantID, product.ID, req.Quantity)
		if err != nil {
			return err
		}
		before := product.RecordStockChange(after, req.Quantity)
		movement, err = inventory.NewStockMovement(inventory.MovementInput{
			TenantID:    tenantID,
			WarehouseID: &warehouse.ID,
			ProductID:   product.ID,
			Type:        movementType,
			Quantity:    req.Quantity,
			StockBefore: before,
			Reason:      req.Reason,
			Reference:   req.Reference,
			CreatedBy:   req.CreatedBy,
		})
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}
		events = append([]shared.DomainEvent{inventory.NewStockAdjustedEvent(movement)}, product.PullDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish stock events", zap.String("movement_id", movement.ID.String()), zap.Error(err))
	}

	response := ToStockMovementResponse(movement)
	return &response, nil
}

// ListMovements returns the movement history of a warehouse
func (s *StockService) ListMovements(ctx context.Context, tenantID, warehouseID uuid.UUID, filter MovementListFilter) ([]StockMovementResponse, int64, error) {
	if _, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.ToFilter()
	if filter.ProductID != "" {
		productID, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PRODUCT", "product_id must be a UUID")
		}
		domainFilter.Filters["product_id"] = productID
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	movements, err := s.movementRepo.FindByWarehouse(ctx, tenantID, warehouseID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountByWarehouse(ctx, tenantID, warehouseID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockMovementResponses(movements), total, nil
}
