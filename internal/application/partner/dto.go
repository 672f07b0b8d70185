package partner

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/google/uuid"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Email     string     `json:"email" binding:"required,email,max=200"`
	FirstName string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string     `json:"last_name" binding:"max=100"`
	Phone     string     `json:"phone" binding:"max=50"`
	Address   string     `json:"address" binding:"max=500"`
	CreatedBy *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// UpdateCustomerRequest represents a request to update a customer.
// Nil fields keep their current value.
type UpdateCustomerRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Address   *string `json:"address" binding:"omitempty,max=500"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	appshared.ListQuery
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Phone:     c.Phone,
		Address:   c.Address,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Warehouse DTOs
// =============================================================================

// CreateWarehouseRequest represents a request to create a new warehouse
type CreateWarehouseRequest struct {
	Code      string     `json:"code" binding:"required,min=1,max=50"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	Address   string     `json:"address" binding:"max=500"`
	IsDefault bool       `json:"is_default"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address   *string `json:"address" binding:"omitempty,max=500"`
	Active    *bool   `json:"active"`
	IsDefault *bool   `json:"is_default"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// WarehouseListFilter represents filter options for warehouse list
type WarehouseListFilter struct {
	appshared.ListQuery
	Active *bool `form:"active"`
}

func ToWarehouseResponse(w *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		TenantID:  w.TenantID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Active:    w.Active,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		Version:   w.Version,
	}
}

func ToWarehouseResponses(warehouses []partner.Warehouse) []WarehouseResponse {
	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses
}
