package handler

import (
	"net/http"
	"testing"
	"time"

	appidentity "github.com/anu-devcode/deploy-test-sub002/internal/application/identity"
	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/auth"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/middleware"
	"github.com/anu-devcode/deploy-test-sub002/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "correct-horse-battery"

type authHandlerFixture struct {
	router    *gin.Engine
	jwt       *auth.JWTService
	tenants   *testutil.MockTenantRepository
	users     *testutil.MockUserRepository
	tenant    *identity.Tenant
	admin     *identity.User
	blacklist *auth.InMemoryTokenBlacklist
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()
	f := &authHandlerFixture{
		tenants:   new(testutil.MockTenantRepository),
		users:     new(testutil.MockUserRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-that-is-long-enough-32",
			AccessTokenExpiration:  time.Hour,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "shop-test",
			MaxRefreshCount:        5,
		}),
	}

	var err error
	f.tenant, err = identity.NewTenant("ACME", "Acme Inc")
	require.NoError(t, err)
	f.tenant.PullDomainEvents()
	f.admin, err = identity.NewUser(f.tenant.ID, "admin", testPassword, identity.RoleAdmin)
	require.NoError(t, err)

	scope := &appshared.NoOpTransactionScope{TenantRepo: f.tenants, UserRepo: f.users}
	svc := appidentity.NewAuthService(f.tenants, f.users, scope, f.jwt, f.blacklist, &testutil.RecordingPublisher{}, zap.NewNop())
	h := NewAuthHandler(svc)

	jwtCfg := middleware.DefaultJWTConfig(f.jwt)
	jwtCfg.TokenBlacklist = f.blacklist

	f.router = gin.New()
	f.router.Use(
		middleware.RequestID(),
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{}),
	)
	group := f.router.Group("/api/v1/auth")
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.POST("/logout", h.Logout)
	group.GET("/me", h.Me)
	return f
}

func (f *authHandlerFixture) tenantHeader() map[string]string {
	return map[string]string{middleware.TenantHeaderKey: f.tenant.ID.String()}
}

func (f *authHandlerFixture) login(t *testing.T) appidentity.AuthResult {
	t.Helper()
	f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
	f.users.On("FindByUsername", mock.Anything, f.tenant.ID, "admin").Return(f.admin, nil)
	f.users.On("Save", mock.Anything, f.admin).Return(nil)

	tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "admin", "password": testPassword}, f.tenantHeader())
	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())

	resp := testutil.JSONResponseAs[struct {
		Data appidentity.AuthResult `json:"data"`
	}](t, tc)
	return resp.Data
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthHandler_Register(t *testing.T) {
	f := newAuthHandlerFixture(t)
	f.tenants.On("ExistsByCode", mock.Anything, "SHOP").Return(false, nil)
	f.tenants.On("Save", mock.Anything, mock.AnythingOfType("*identity.Tenant")).Return(nil)
	f.users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"tenant_code": "shop",
		"tenant_name": "My Shop",
		"username":    "owner",
		"password":    "longpassword",
	}, nil)

	assert.Equal(t, http.StatusCreated, tc.Recorder.Code)
	resp := testutil.JSONResponseAs[struct {
		Data appidentity.AuthResult `json:"data"`
	}](t, tc)
	assert.NotEmpty(t, resp.Data.AccessToken)
	require.NotNil(t, resp.Data.User)
	assert.Equal(t, string(identity.RoleAdmin), resp.Data.User.Role)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	f := newAuthHandlerFixture(t)

	tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"tenant_code": "shop",
		"username":    "owner",
		"password":    "short",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
	f.tenants.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAuthHandlerFixture(t)
		result := f.login(t)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		require.NotNil(t, result.Tenant)
		assert.Equal(t, f.tenant.ID, result.Tenant.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthHandlerFixture(t)
		f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
		f.users.On("FindByUsername", mock.Anything, f.tenant.ID, "admin").Return(f.admin, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/login",
			gin.H{"username": "admin", "password": "nope"}, f.tenantHeader())

		assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeInvalidCredentials)
	})

	t.Run("unknown tenant reads as bad credentials", func(t *testing.T) {
		f := newAuthHandlerFixture(t)
		f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(nil, shared.ErrNotFound)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/login",
			gin.H{"username": "admin", "password": testPassword}, f.tenantHeader())

		assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		f := newAuthHandlerFixture(t)
		require.NoError(t, f.tenant.Suspend())
		f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/login",
			gin.H{"username": "admin", "password": testPassword}, f.tenantHeader())

		assert.Equal(t, http.StatusForbidden, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeTenantSuspended)
	})

	t.Run("no tenant header and no default", func(t *testing.T) {
		f := newAuthHandlerFixture(t)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/login",
			gin.H{"username": "admin", "password": testPassword}, nil)

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newAuthHandlerFixture(t)

		tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/login",
			gin.H{"username": "admin"}, f.tenantHeader())

		assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	f := newAuthHandlerFixture(t)
	first := f.login(t)

	tc := testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/refresh",
		gin.H{"refresh_token": first.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, tc.Recorder.Code, tc.Recorder.Body.String())
	testutil.AssertSuccessResponse(t, tc)

	// the presented refresh token is rotated out
	tc = testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/refresh",
		gin.H{"refresh_token": first.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeTokenRevoked)

	tc = testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/refresh",
		gin.H{"refresh_token": "garbage"}, nil)
	assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeTokenInvalid)
}

func TestAuthHandler_LogoutRevokesAccessToken(t *testing.T) {
	f := newAuthHandlerFixture(t)
	tokens := f.login(t)
	f.users.On("FindByIDForTenant", mock.Anything, f.tenant.ID, f.admin.ID).Return(f.admin, nil)

	tc := testutil.PerformRequest(t, f.router, http.MethodGet, "/api/v1/auth/me", nil, bearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, tc.Recorder.Code)

	tc = testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/logout",
		gin.H{"refresh_token": tokens.RefreshToken}, bearer(tokens.AccessToken))
	assert.Equal(t, http.StatusNoContent, tc.Recorder.Code)

	tc = testutil.PerformRequest(t, f.router, http.MethodGet, "/api/v1/auth/me", nil, bearer(tokens.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeTokenRevoked)

	tc = testutil.PerformRequest(t, f.router, http.MethodPost, "/api/v1/auth/refresh",
		gin.H{"refresh_token": tokens.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	f := newAuthHandlerFixture(t)
	tokens := f.login(t)
	f.users.On("FindByIDForTenant", mock.Anything, f.tenant.ID, f.admin.ID).Return(f.admin, nil)

	tc := testutil.PerformRequest(t, f.router, http.MethodGet, "/api/v1/auth/me", nil, bearer(tokens.AccessToken))

	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	resp := testutil.JSONResponseAs[struct {
		Data appidentity.UserInfo `json:"data"`
	}](t, tc)
	assert.Equal(t, f.admin.ID, resp.Data.ID)
	assert.Equal(t, "admin", resp.Data.Username)

	tc = testutil.PerformRequest(t, f.router, http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, tc.Recorder.Code)
}
