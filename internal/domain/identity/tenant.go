package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
)

const DefaultCurrency = "USD"

var tenantCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,50}$`)

// Tenant is a merchant on the platform. Every other aggregate is isolated by its ID.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	Currency     string       `gorm:"type:varchar(3);not null;default:'USD'"`
	SuspendedAt  *time.Time
}

func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates an active tenant
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              strings.TrimSpace(name),
		Status:            TenantStatusActive,
		Currency:          DefaultCurrency,
	}
	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))
	return tenant, nil
}

// Update changes the display attributes of the tenant. Empty currency keeps the current one.
func (t *Tenant) Update(name, contactEmail, currency string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	if len(contactEmail) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if currency != "" {
		if len(currency) != 3 {
			return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
		}
		t.Currency = strings.ToUpper(currency)
	}

	t.Name = strings.TrimSpace(name)
	t.ContactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	t.MarkModified()
	return nil
}

func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	now := time.Now()
	t.Status = TenantStatusSuspended
	t.SuspendedAt = &now
	t.MarkModified()
	return nil
}

func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.SuspendedAt = nil
	t.MarkModified()
	return nil
}

// IsOperational reports whether users of the tenant may sign in
func (t *Tenant) IsOperational() bool {
	return t.Status == TenantStatusActive || t.Status == TenantStatusTrial
}

func validateTenantCode(code string) error {
	if !tenantCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Tenant code must be 2-50 letters, digits, underscores or hyphens")
	}
	return nil
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
