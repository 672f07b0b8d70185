package handler

import (
	"net/http"
	"testing"

	partnerapp "github.com/anu-devcode/deploy-test-sub002/internal/application/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCustomerRouter(repo *testutil.MockCustomerRepository) *gin.Engine {
	h := NewCustomerHandler(partnerapp.NewCustomerService(repo))
	router := setupTestRouter()
	router.POST("/customers", h.Create)
	router.GET("/customers", h.List)
	router.GET("/customers/:id", h.GetByID)
	router.PUT("/customers/:id", h.Update)
	router.DELETE("/customers/:id", h.Delete)
	router.POST("/customers/:id/activate", h.Activate)
	router.POST("/customers/:id/deactivate", h.Deactivate)
	return router
}

func newHandlerTestCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(testutil.TestTenantID(), "jane@example.com", "Jane", "Doe")
	require.NoError(t, err)
	return c
}

func TestCustomerHandler_Create(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)
	tenantID := testutil.TestTenantID()
	repo.On("ExistsByEmail", mock.Anything, tenantID, "jane@example.com").Return(false, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.CreatedBy != nil && *c.CreatedBy == testutil.TestUserID()
	})).Return(nil)

	tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodPost, "/customers", gin.H{
		"email":      "Jane@Example.com",
		"first_name": "Jane",
		"last_name":  "Doe",
	}, nil)

	require.Equal(t, http.StatusCreated, tc.Recorder.Code, tc.Recorder.Body.String())
	resp := testutil.JSONResponseAs[struct {
		Data partnerapp.CustomerResponse `json:"data"`
	}](t, tc)
	assert.Equal(t, "jane@example.com", resp.Data.Email)
	assert.Equal(t, tenantID, resp.Data.TenantID)
	repo.AssertExpectations(t)
}

func TestCustomerHandler_Create_DuplicateEmail(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)
	repo.On("ExistsByEmail", mock.Anything, testutil.TestTenantID(), "jane@example.com").Return(true, nil)

	tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodPost, "/customers", gin.H{
		"email":      "jane@example.com",
		"first_name": "Jane",
	}, nil)

	assert.Equal(t, http.StatusConflict, tc.Recorder.Code)
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerHandler_Create_InvalidEmail(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)

	tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodPost, "/customers", gin.H{
		"email":      "not-an-email",
		"first_name": "Jane",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	resp := testutil.JSONResponseAs[dto.Response](t, tc)
	require.NotNil(t, resp.Error)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestCustomerHandler_GetByID(t *testing.T) {
	customer := newHandlerTestCustomer(t)

	t.Run("found", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		repo.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), customer.ID).Return(customer, nil)

		tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodGet, "/customers/"+customer.ID.String(), nil, nil)
		assert.Equal(t, http.StatusOK, tc.Recorder.Code)
		testutil.AssertSuccessResponse(t, tc)
	})

	t.Run("other tenant's customer is not found", func(t *testing.T) {
		repo := new(testutil.MockCustomerRepository)
		repo.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), customer.ID).Return(nil, shared.ErrNotFound)

		tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodGet, "/customers/"+customer.ID.String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		tc := testutil.PerformRequest(t, setupCustomerRouter(new(testutil.MockCustomerRepository)), http.MethodGet, "/customers/123", nil, nil)
		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeInvalidInput)
	})
}

func TestCustomerHandler_List(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)
	customer := newHandlerTestCustomer(t)
	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 1 && f.Search == "jane" && f.Filters["status"] == "active"
	})
	repo.On("FindAllForTenant", mock.Anything, testutil.TestTenantID(), matchFilter).Return([]partner.Customer{*customer}, nil)
	repo.On("CountForTenant", mock.Anything, testutil.TestTenantID(), matchFilter).Return(int64(3), nil)

	tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodGet,
		"/customers?search=jane&status=active&page=2&page_size=1", nil, nil)

	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
	resp := testutil.JSONResponseAs[dto.Response](t, tc)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Len(t, resp.Data, 1)
}

func TestCustomerHandler_List_InvalidQuery(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)

	for _, query := range []string{"status=vip", "page_size=1000", "order_dir=sideways"} {
		tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodGet, "/customers?"+query, nil, nil)
		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code, query)
	}
	repo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerHandler_Update(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)
	customer := newHandlerTestCustomer(t)
	repo.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), customer.ID).Return(customer, nil)
	repo.On("Save", mock.Anything, customer).Return(nil)

	tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodPut, "/customers/"+customer.ID.String(),
		gin.H{"phone": "+1 555 0100"}, nil)

	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
	assert.Equal(t, "+1 555 0100", customer.Phone)
	assert.Equal(t, "Jane", customer.FirstName)
}

func TestCustomerHandler_Delete(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)
	customer := newHandlerTestCustomer(t)
	repo.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), customer.ID).Return(customer, nil)
	repo.On("DeleteForTenant", mock.Anything, testutil.TestTenantID(), customer.ID).Return(nil)

	tc := testutil.PerformRequest(t, setupCustomerRouter(repo), http.MethodDelete, "/customers/"+customer.ID.String(), nil, nil)

	assert.Equal(t, http.StatusNoContent, tc.Recorder.Code)
	repo.AssertExpectations(t)
}

func TestCustomerHandler_StatusTransitions(t *testing.T) {
	repo := new(testutil.MockCustomerRepository)
	customer := newHandlerTestCustomer(t)
	repo.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), customer.ID).Return(customer, nil)
	repo.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), mock.Anything).Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, customer).Return(nil)
	router := setupCustomerRouter(repo)
	base := "/customers/" + customer.ID.String()

	tc := testutil.PerformRequest(t, router, http.MethodPost, base+"/deactivate", nil, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	assert.False(t, customer.IsActive())

	tc = testutil.PerformRequest(t, router, http.MethodPost, base+"/deactivate", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, tc.Recorder.Code)

	tc = testutil.PerformRequest(t, router, http.MethodPost, base+"/activate", nil, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	assert.True(t, customer.IsActive())

	tc = testutil.PerformRequest(t, router, http.MethodPost, "/customers/"+uuid.NewString()+"/activate", nil, nil)
	assert.Equal(t, http.StatusNotFound, tc.Recorder.Code)
}
