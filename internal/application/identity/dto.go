package identity

import (
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput creates a tenant together with its first admin user
type RegisterInput struct {
	TenantCode   string `json:"tenant_code" binding:"required,min=2,max=50"`
	TenantName   string `json:"tenant_name" binding:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	Username     string `json:"username" binding:"required,min=3,max=100"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
}

// LoginInput contains the input for user login. TenantID is resolved by the
// HTTP layer from the header or the configured default.
type LoginInput struct {
	TenantID uuid.UUID `json:"-"`
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput revokes the presented access token and, optionally, its refresh token
type LogoutInput struct {
	AccessTokenID  string        `json:"-"`
	AccessTokenTTL time.Duration `json:"-"`
	RefreshToken   string        `json:"refresh_token"`
}

// AuthResult contains the tokens issued by register, login and refresh
type AuthResult struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	TokenType             string     `json:"token_type"`
	User                  *UserInfo  `json:"user,omitempty"`
	Tenant                *TenantDTO `json:"tenant,omitempty"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// UpdateTenantInput changes the current tenant's profile
type UpdateTenantInput struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
}

// TenantDTO is the public view of a tenant
type TenantDTO struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	ContactEmail string     `json:"contact_email"`
	Currency     string     `json:"currency"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToUserInfo(u *identity.User) *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}

func ToTenantDTO(t *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Status:       string(t.Status),
		ContactEmail: t.ContactEmail,
		Currency:     t.Currency,
		SuspendedAt:  t.SuspendedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
