package identity

import (
	"context"
	"testing"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTenantService_UpdateCurrent(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockTenantRepository)
	svc := NewTenantService(repo, zap.NewNop())
	tenant, err := identity.NewTenant("ACME", "Acme")
	require.NoError(t, err)

	repo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	repo.On("Save", ctx, tenant).Return(nil)

	dto, err := svc.UpdateCurrent(ctx, tenant.ID, UpdateTenantInput{Name: "Acme Corp", ContactEmail: "Ops@Acme.io", Currency: "gbp"})

	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", dto.Name)
	assert.Equal(t, "ops@acme.io", dto.ContactEmail)
	assert.Equal(t, "GBP", dto.Currency)
}

func TestTenantService_SuspendAndActivate(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockTenantRepository)
	svc := NewTenantService(repo, zap.NewNop())
	tenant, err := identity.NewTenant("ACME", "Acme")
	require.NoError(t, err)

	repo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	repo.On("Save", ctx, tenant).Return(nil)

	dto, err := svc.Suspend(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", dto.Status)
	assert.NotNil(t, dto.SuspendedAt)

	_, err = svc.Suspend(ctx, tenant.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_SUSPENDED", domainErr.Code)

	dto, err = svc.Activate(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)
	assert.Nil(t, dto.SuspendedAt)
}
