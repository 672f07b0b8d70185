package partner

import (
	"net/mail"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is a shopper of a tenant storefront
type Customer struct {
	shared.TenantAggregateRoot
	Email     string         `gorm:"type:varchar(200);not null;index"`
	FirstName string         `gorm:"type:varchar(100);not null"`
	LastName  string         `gorm:"type:varchar(100)"`
	Phone     string         `gorm:"type:varchar(50)"`
	Address   string         `gorm:"type:text"`
	Status    CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer. The email is stored lower-cased.
func NewCustomer(tenantID uuid.UUID, email, firstName, lastName string) (*Customer, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePersonName(firstName); err != nil {
		return nil, err
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Status:              CustomerStatusActive,
	}, nil
}

func (c *Customer) Update(firstName, lastName, phone, address string) error {
	if err := validatePersonName(firstName); err != nil {
		return err
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.Phone = phone
	c.Address = address
	c.MarkModified()
	return nil
}

// ChangeEmail replaces the email; uniqueness is checked by the caller
func (c *Customer) ChangeEmail(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	c.Email = normalized
	c.MarkModified()
	return nil
}

func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.MarkModified()
	return nil
}

func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.MarkModified()
	return nil
}

func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NormalizeEmail lower-cases and validates an email address
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return email, nil
}

func validatePersonName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "First name cannot exceed 100 characters")
	}
	return nil
}
