package partner

import (
	"regexp"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

var warehouseCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// Warehouse is a physical stock location of a tenant
type Warehouse struct {
	shared.TenantAggregateRoot
	Code      string `gorm:"type:varchar(50);not null;index"`
	Name      string `gorm:"type:varchar(200);not null"`
	Address   string `gorm:"type:text"`
	Active    bool   `gorm:"not null"`
	IsDefault bool   `gorm:"not null"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}

func NewWarehouse(tenantID uuid.UUID, code, name string) (*Warehouse, error) {
	if !warehouseCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code must be 1-50 letters, digits, underscores or hyphens")
	}
	if err := validateWarehouseName(name); err != nil {
		return nil, err
	}
	return &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                strings.TrimSpace(name),
		Active:              true,
	}, nil
}

func (w *Warehouse) Update(name, address string) error {
	if err := validateWarehouseName(name); err != nil {
		return err
	}
	w.Name = strings.TrimSpace(name)
	w.Address = address
	w.MarkModified()
	return nil
}

func (w *Warehouse) SetActive(active bool) error {
	if !active && w.IsDefault {
		return shared.NewDomainError("CANNOT_DEACTIVATE_DEFAULT", "Default warehouse cannot be deactivated")
	}
	w.Active = active
	w.MarkModified()
	return nil
}

// SetDefault flags this warehouse as the target for sale movements.
// Only active warehouses may become the default.
func (w *Warehouse) SetDefault(isDefault bool) error {
	if isDefault && !w.Active {
		return shared.NewDomainError("INACTIVE_WAREHOUSE", "Inactive warehouse cannot be the default")
	}
	w.IsDefault = isDefault
	w.MarkModified()
	return nil
}

// EnsureOperational fails when stock cannot be moved through this warehouse
func (w *Warehouse) EnsureOperational() error {
	if !w.Active {
		return shared.NewDomainError("INACTIVE_WAREHOUSE", "Warehouse is inactive")
	}
	return nil
}

func validateWarehouseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}
