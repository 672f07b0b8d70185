package identity

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService manages the profile and status of the caller's tenant
type TenantService struct {
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

func NewTenantService(tenantRepo identity.TenantRepository, logger *zap.Logger) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, logger: logger}
}

func (s *TenantService) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToTenantDTO(tenant), nil
}

func (s *TenantService) UpdateCurrent(ctx context.Context, tenantID uuid.UUID, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.Update(input.Name, input.ContactEmail, input.Currency); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	return ToTenantDTO(tenant), nil
}

// Suspend blocks new logins for the tenant. Issued tokens expire naturally.
func (s *TenantService) Suspend(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	return s.changeStatus(ctx, tenantID, (*identity.Tenant).Suspend)
}

func (s *TenantService) Activate(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	return s.changeStatus(ctx, tenantID, (*identity.Tenant).Activate)
}

func (s *TenantService) changeStatus(ctx context.Context, tenantID uuid.UUID, apply func(*identity.Tenant) error) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := apply(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("Tenant status changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("status", string(tenant.Status)))
	return ToTenantDTO(tenant), nil
}
