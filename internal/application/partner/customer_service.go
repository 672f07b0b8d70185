package partner

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(tenantID, req.Email, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	exists, err := s.customerRepo.ExistsByEmail(ctx, tenantID, customer.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	if req.Phone != "" || req.Address != "" {
		if err := customer.Update(customer.FirstName, customer.LastName, req.Phone, req.Address); err != nil {
			return nil, err
		}
	}
	if req.CreatedBy != nil {
		customer.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := filter.ToFilter()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer. Changing the email re-checks uniqueness.
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		normalized, err := partner.NormalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if normalized != customer.Email {
			exists, err := s.customerRepo.ExistsByEmail(ctx, tenantID, normalized)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
			}
			if err := customer.ChangeEmail(normalized); err != nil {
				return nil, err
			}
		}
	}

	firstName, lastName := customer.FirstName, customer.LastName
	phone, address := customer.Phone, customer.Address
	if req.FirstName != nil {
		firstName = *req.FirstName
	}
	if req.LastName != nil {
		lastName = *req.LastName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := customer.Update(firstName, lastName, phone, address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return err
	}
	return s.customerRepo.DeleteForTenant(ctx, tenantID, customerID)
}

// Activate re-enables checkout for a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, tenantID, customerID, (*partner.Customer).Activate)
}

// Deactivate blocks a customer from checking out
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, tenantID, customerID, (*partner.Customer).Deactivate)
}

func (s *CustomerService) changeStatus(ctx context.Context, tenantID, customerID uuid.UUID, apply func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := apply(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}
