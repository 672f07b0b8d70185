package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, "Jane@Example.com", "Jane", "Doe")
	require.NoError(t, err)
	return customer
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates customer with normalized email", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		svc := NewCustomerService(repo)
		userID := uuid.New()

		repo.On("ExistsByEmail", ctx, tenantID, "jane@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateCustomerRequest{
			Email:     " Jane@Example.com ",
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "555-0100",
			CreatedBy: &userID,
		})

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, "Jane Doe", resp.FullName)
		assert.Equal(t, "555-0100", resp.Phone)
		assert.Equal(t, "active", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		svc := NewCustomerService(repo)

		repo.On("ExistsByEmail", ctx, tenantID, "jane@example.com").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateCustomerRequest{Email: "jane@example.com", FirstName: "Jane"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid email fails before lookup", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, tenantID, CreateCustomerRequest{Email: "not-an-email", FirstName: "Jane"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		svc := NewCustomerService(repo)
		customer := newTestCustomer(t, tenantID)
		phone := "555-0199"

		repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		repo.On("Save", ctx, customer).Return(nil)

		resp, err := svc.Update(ctx, tenantID, customer.ID, UpdateCustomerRequest{Phone: &phone})

		require.NoError(t, err)
		assert.Equal(t, "Jane", resp.FirstName)
		assert.Equal(t, "555-0199", resp.Phone)
		assert.Equal(t, 2, resp.Version)
	})

	t.Run("email change to a taken address", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		svc := NewCustomerService(repo)
		customer := newTestCustomer(t, tenantID)
		email := "taken@example.com"

		repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		repo.On("ExistsByEmail", ctx, tenantID, email).Return(true, nil)

		_, err := svc.Update(ctx, tenantID, customer.ID, UpdateCustomerRequest{Email: &email})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("same email skips uniqueness check", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		svc := NewCustomerService(repo)
		customer := newTestCustomer(t, tenantID)
		email := "JANE@example.com"

		repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		repo.On("Save", ctx, customer).Return(nil)

		_, err := svc.Update(ctx, tenantID, customer.ID, UpdateCustomerRequest{Email: &email})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCustomerService_GetByID_OtherTenant(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCustomerRepository)
	svc := NewCustomerService(repo)
	tenantID, customerID := uuid.New(), uuid.New()

	repo.On("FindByIDForTenant", ctx, tenantID, customerID).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, tenantID, customerID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockCustomerRepository)
	svc := NewCustomerService(repo)
	tenantID := uuid.New()
	customer := newTestCustomer(t, tenantID)

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.Search == "jane" && f.Filters["status"] == "active"
	})
	repo.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]partner.Customer{*customer}, nil)
	repo.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(11), nil)

	filter := CustomerListFilter{Status: "active"}
	filter.Page, filter.PageSize, filter.Search = 2, 10, "jane"
	customers, total, err := svc.List(ctx, tenantID, filter)

	require.NoError(t, err)
	assert.Len(t, customers, 1)
	assert.Equal(t, int64(11), total)
}

func TestCustomerService_ActivateDeactivate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(testutil.MockCustomerRepository)
	svc := NewCustomerService(repo)
	customer := newTestCustomer(t, tenantID)

	repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, customer).Return(nil)

	resp, err := svc.Deactivate(ctx, tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = svc.Deactivate(ctx, tenantID, customer.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_INACTIVE", domainErr.Code)

	resp, err = svc.Activate(ctx, tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(testutil.MockCustomerRepository)
	svc := NewCustomerService(repo)
	customer := newTestCustomer(t, tenantID)
	dbErr := errors.New("connection reset")

	repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	repo.On("DeleteForTenant", ctx, tenantID, customer.ID).Return(dbErr).Once()

	assert.ErrorIs(t, svc.Delete(ctx, tenantID, customer.ID), dbErr)
}
