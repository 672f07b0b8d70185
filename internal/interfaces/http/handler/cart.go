package handler

import (
	"strings"

	tradeapp "github.com/anu-devcode/deploy-test-sub002/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients retry a checkout without placing a second order
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// CartHandler handles cart endpoints and checkout
type CartHandler struct {
	BaseHandler
	cartService     *tradeapp.CartService
	checkoutService *tradeapp.CheckoutService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *tradeapp.CartService, checkoutService *tradeapp.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// Create godoc
// @ID           createCart
// @Summary      Open a cart for a customer
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateCartRequest true "Cart owner"
// @Success      201 {object} APIResponse[tradeapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts [post]
func (h *CartHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req tradeapp.CreateCartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cart)
}

// GetByID godoc
// @ID           getCartById
// @Summary      Get cart by ID
// @Tags         carts
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts/{id} [get]
func (h *CartHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	cart, err := h.cartService.GetByID(c.Request.Context(), tenantID, cartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to a cart
// @Description  Adding a product already in the cart increases its quantity
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Param        request body tradeapp.AddCartItemRequest true "Product and quantity"
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.AddCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), tenantID, cartID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Change the quantity of a cart line
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Param        item_id path string true "Cart item ID" format(uuid)
// @Param        request body tradeapp.UpdateCartItemRequest true "New quantity, zero removes the line"
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts/{id}/items/{item_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	var req tradeapp.UpdateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), tenantID, cartID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a line from a cart
// @Tags         carts
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Param        item_id path string true "Cart item ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts/{id}/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), tenantID, cartID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear godoc
// @ID           clearCart
// @Summary      Remove every line from a cart
// @Tags         carts
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts/{id}/items [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.cartService.Clear)
}

// Checkout godoc
// @ID           checkoutCart
// @Summary      Convert a cart into an order
// @Description  Reserves stock for every line and creates a pending order in one transaction.
// @Description  A repeated Idempotency-Key is rejected with 409.
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Param        Idempotency-Key header string false "Client generated key for safe retries"
// @Param        request body tradeapp.CheckoutRequest false "Discount, tax and shipping details"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carts/{id}/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cartID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}
	req.CreatedBy = currentUser(c)

	order, err := h.checkoutService.Checkout(c.Request.Context(), tenantID, cartID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}
