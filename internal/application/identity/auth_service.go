package identity

import (
	"context"
	"errors"
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrTenantSuspended    = shared.NewDomainError("TENANT_SUSPENDED", "Tenant is suspended")
	ErrAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	txScope    appshared.TransactionScope
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case logout only succeeds client side.
func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	txScope appshared.TransactionScope,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		txScope:    txScope,
		jwtService: jwtService,
		blacklist:  blacklist,
		publisher:  publisher,
		logger:     logger,
	}
}

// Register creates a tenant and its admin user atomically and signs the admin in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	tenant, err := identity.NewTenant(input.TenantCode, input.TenantName)
	if err != nil {
		return nil, err
	}
	if input.ContactEmail != "" || input.Currency != "" {
		if err := tenant.Update(tenant.Name, input.ContactEmail, input.Currency); err != nil {
			return nil, err
		}
	}
	admin, err := identity.NewUser(tenant.ID, input.Username, input.Password, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		exists, err := repos.Tenants().ExistsByCode(ctx, tenant.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Tenant with this code already exists")
		}
		if err := repos.Tenants().Save(ctx, tenant); err != nil {
			return err
		}
		return repos.Users().Save(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, tenant.PullDomainEvents()...)
	s.logger.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("tenant_code", tenant.Code))

	result, err := s.issue(admin)
	if err != nil {
		return nil, err
	}
	result.Tenant = ToTenantDTO(tenant)
	return result, nil
}

// Login authenticates a user of the given tenant and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsOperational() {
		s.logger.Warn("Login attempt for suspended tenant", zap.String("tenant_id", tenant.ID.String()))
		return nil, ErrTenantSuspended
	}

	user, err := s.userRepo.FindByUsername(ctx, tenant.ID, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", input.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Don't fail the login over bookkeeping
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	result.Tenant = ToTenantDTO(tenant)
	return result, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, input RefreshTokenInput) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, mapTokenError(auth.ErrTokenBlacklisted)
		}
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mapTokenError(auth.ErrInvalidClaims)
		}
		return nil, err
	}
	if !tenant.IsOperational() {
		return nil, ErrTenantSuspended
	}

	pair, _, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	s.revoke(ctx, claims.ID, claims.RemainingTTL())

	return fromPair(pair), nil
}

// Logout revokes the access token and the refresh token when one is supplied
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil {
		return nil
	}
	if input.AccessTokenID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessTokenID, input.AccessTokenTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err != nil {
			// Already unusable
			return nil
		}
		return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL())
	}
	return nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return ToUserInfo(user), nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	result := fromPair(pair)
	result.User = ToUserInfo(user)
	return result, nil
}

func (s *AuthService) revoke(ctx context.Context, jti string, ttl time.Duration) {
	if s.blacklist == nil || jti == "" || ttl <= 0 {
		return
	}
	if err := s.blacklist.AddToBlacklist(ctx, jti, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", jti), zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events", zap.Error(err))
	}
}

func fromPair(pair *auth.TokenPair) *AuthResult {
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
