package identity

import (
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level of a user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// User is a back-office account of a tenant
type User struct {
	shared.TenantAggregateRoot
	Username     string `gorm:"type:varchar(100);not null;index"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	DisplayName  string `gorm:"type:varchar(200)"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'staff'"`
	Active       bool   `gorm:"not null"`
	LastLoginAt  *time.Time
}

func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a bcrypt hashed password
func NewUser(tenantID uuid.UUID, username, password string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 || len(username) > 100 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-100 characters")
	}
	if role != RoleAdmin && role != RoleStaff {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or staff")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		DisplayName:         username,
		Role:                role,
		Active:              true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *User) SetPassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be 8-72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.MarkModified()
	return nil
}

func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.Touch()
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
