package partner

import (
	"context"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseService handles warehouse-related business operations.
// Default-flag changes run in a transaction so a tenant never ends up with two defaults.
type WarehouseService struct {
	warehouseRepo partner.WarehouseRepository
	txScope       appshared.TransactionScope
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo partner.WarehouseRepository, txScope appshared.TransactionScope) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		txScope:       txScope,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := partner.NewWarehouse(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.warehouseRepo.ExistsByCode(ctx, tenantID, warehouse.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	if req.Address != "" {
		if err := warehouse.Update(warehouse.Name, req.Address); err != nil {
			return nil, err
		}
	}
	if req.CreatedBy != nil {
		warehouse.SetCreatedBy(*req.CreatedBy)
	}

	if req.IsDefault {
		if err := warehouse.SetDefault(true); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, warehouse, req.IsDefault); err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List retrieves a list of warehouses with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, tenantID uuid.UUID, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	domainFilter := filter.ToFilter()
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	warehouses, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToWarehouseResponses(warehouses), total, nil
}

// Update updates a warehouse
func (s *WarehouseService) Update(ctx context.Context, tenantID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	name, address := warehouse.Name, warehouse.Address
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := warehouse.Update(name, address); err != nil {
		return nil, err
	}

	// Order matters: activate before promoting, demote before deactivating.
	if req.Active != nil && *req.Active {
		if err := warehouse.SetActive(true); err != nil {
			return nil, err
		}
	}
	becomesDefault := false
	if req.IsDefault != nil && *req.IsDefault != warehouse.IsDefault {
		if err := warehouse.SetDefault(*req.IsDefault); err != nil {
			return nil, err
		}
		becomesDefault = *req.IsDefault
	}
	if req.Active != nil && !*req.Active {
		if err := warehouse.SetActive(false); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, warehouse, becomesDefault); err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Delete deletes a warehouse. The default warehouse cannot be deleted.
func (s *WarehouseService) Delete(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return err
	}
	if warehouse.IsDefault {
		return shared.NewDomainError("CANNOT_DELETE_DEFAULT", "Default warehouse cannot be deleted")
	}
	return s.warehouseRepo.DeleteForTenant(ctx, tenantID, warehouseID)
}

func (s *WarehouseService) save(ctx context.Context, warehouse *partner.Warehouse, clearOthers bool) error {
	if !clearOthers {
		return s.warehouseRepo.Save(ctx, warehouse)
	}
	return s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.Warehouses().ClearDefault(ctx, warehouse.TenantID); err != nil {
			return err
		}
		return repos.Warehouses().Save(ctx, warehouse)
	})
}
