package trade

import (
	"context"
	"errors"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
)

var (
	ErrProductInactive  = shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale")
	ErrCustomerInactive = shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is inactive")
)

// CartService manages open carts. Lines snapshot the product price when added;
// checkout reprices them.
type CartService struct {
	cartRepo     trade.CartRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
}

func NewCartService(
	cartRepo trade.CartRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// Create returns the customer's open cart, opening one if none exists
func (s *CartService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCartRequest) (*CartResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, ErrCustomerInactive
	}

	cart, err := s.cartRepo.FindOpenByCustomer(ctx, tenantID, customer.ID)
	switch {
	case err == nil:
		response := ToCartResponse(cart)
		return &response, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	cart, err = trade.NewCart(tenantID, customer.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

func (s *CartService) GetByID(ctx context.Context, tenantID, cartID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByIDForTenant(ctx, tenantID, cartID)
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// AddItem adds units of an active product at its current price.
// The merged line quantity must be covered by stock on hand.
func (s *CartService) AddItem(ctx context.Context, tenantID, cartID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByIDForTenant(ctx, tenantID, cartID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, ErrProductInactive
	}

	wanted := req.Quantity
	if existing := cart.FindItemByProduct(product.ID); existing != nil {
		wanted += existing.Quantity
	}
	if !product.CanFulfil(wanted) {
		return nil, shared.ErrInsufficientStock
	}

	if _, err := cart.AddItem(product.ID, req.Quantity, product.Price); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

// UpdateItem sets a line quantity; zero removes the line
func (s *CartService) UpdateItem(ctx context.Context, tenantID, cartID, itemID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByIDForTenant(ctx, tenantID, cartID)
	if err != nil {
		return nil, err
	}
	item := cart.FindItem(itemID)
	if item == nil {
		return nil, trade.ErrCartItemAbsent
	}

	if req.Quantity > 0 {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.CanFulfil(req.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
	}

	if err := cart.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, tenantID, cartID, itemID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByIDForTenant(ctx, tenantID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, tenantID, cartID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByIDForTenant(ctx, tenantID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Clear(); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

func (s *CartService) save(ctx context.Context, cart *trade.Cart) (*CartResponse, error) {
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	response := ToCartResponse(cart)
	return &response, nil
}
