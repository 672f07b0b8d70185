package handler

import (
	inventoryapp "github.com/anu-devcode/deploy-test-sub002/internal/application/inventory"
	partnerapp "github.com/anu-devcode/deploy-test-sub002/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse endpoints and the stock movements recorded against them
type WarehouseHandler struct {
	BaseHandler
	warehouseService *partnerapp.WarehouseService
	stockService     *inventoryapp.StockService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *partnerapp.WarehouseService, stockService *inventoryapp.StockService) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
		stockService:     stockService,
	}
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a new warehouse
// @Description  The first warehouse of a tenant becomes its default
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateWarehouseRequest true "Warehouse creation request"
// @Success      201 {object} APIResponse[partnerapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req partnerapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	warehouse, err := h.warehouseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetByID godoc
// @ID           getWarehouseById
// @Summary      Get warehouse by ID
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        search query string false "Matches code or name"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(code, name, created_at, updated_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]partnerapp.WarehouseResponse]
// @Security     BearerAuth
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter partnerapp.WarehouseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	warehouses, total, err := h.warehouseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, filter.ListQuery)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body partnerapp.UpdateWarehouseRequest true "Fields to change"
// @Success      200 {object} APIResponse[partnerapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), tenantID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Delete godoc
// @ID           deleteWarehouse
// @Summary      Delete a warehouse
// @Description  The default warehouse cannot be deleted
// @Tags         warehouses
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.warehouseService.Delete(c.Request.Context(), tenantID, warehouseID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock godoc
// @ID           adjustWarehouseStock
// @Summary      Adjust product stock through a warehouse
// @Description  Applies a signed quantity to the product and records the movement
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Stock adjustment"
// @Success      201 {object} APIResponse[inventoryapp.StockMovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock-adjustments [post]
func (h *WarehouseHandler) AdjustStock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	movement, err := h.stockService.Adjust(c.Request.Context(), tenantID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListMovements godoc
// @ID           listWarehouseStockMovements
// @Summary      List stock movements of a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        type query string false "Movement type" Enums(in, out, adjustment, sale, return)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]inventoryapp.StockMovementResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock-movements [get]
func (h *WarehouseHandler) ListMovements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), tenantID, warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.ListQuery)
}
