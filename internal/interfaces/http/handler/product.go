package handler

import (
	"io"
	"strings"

	catalogapp "github.com/anu-devcode/deploy-test-sub002/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Description  Create a product in the current tenant. Stock starts at zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	product, err := h.productService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Import godoc
// @ID           importProducts
// @Summary      Import products from CSV
// @Description  Columns: sku, name, price and optional description, compare_at_price, low_stock_threshold.
// @Description  Nothing is written when a row fails validation; the result lists the failing rows.
// @Tags         products
// @Accept       multipart/form-data
// @Accept       text/csv
// @Produce      json
// @Param        file formData file false "CSV file (multipart uploads)"
// @Param        conflict query string false "What to do with existing SKUs" Enums(skip, fail) default(skip)
// @Success      200 {object} APIResponse[catalogapp.ImportResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	mode := catalogapp.ConflictMode(c.DefaultQuery("conflict", string(catalogapp.ConflictSkip)))
	if mode != catalogapp.ConflictSkip && mode != catalogapp.ConflictFail {
		h.BadRequest(c, "conflict must be skip or fail")
		return
	}

	src := io.Reader(c.Request.Body)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			h.BadRequest(c, "A CSV file is required in the 'file' field")
			return
		}
		file, err := header.Open()
		if err != nil {
			h.BadRequest(c, "Uploaded file cannot be opened")
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.productService.Import(c.Request.Context(), tenantID, src, mode, currentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByID godoc
// @ID           getProductById
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Matches SKU or name"
// @Param        status query string false "Status" Enums(active, inactive, archived)
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        in_stock query bool false "Only products with stock (true) or without (false)"
// @Param        low_stock query bool false "Only products at or below their low stock threshold"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(sku, name, price, stock, created_at, updated_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.ListQuery)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Stock is changed through warehouse stock adjustments, not here
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), tenantID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Activate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.productService.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.productService.Deactivate)
}

// RequestImageUpload godoc
// @ID           requestProductImageUpload
// @Summary      Get a presigned image upload URL
// @Description  Returns a short-lived PUT URL. The object key is stored on the product.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageUploadRequest true "Image content type"
// @Success      200 {object} APIResponse[catalogapp.ImageURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/image-upload-url [post]
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.productService.RequestImageUpload(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ImageURL godoc
// @ID           getProductImageUrl
// @Summary      Get a presigned image download URL
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ImageURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/image-url [get]
func (h *ProductHandler) ImageURL(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	image, err := h.productService.ImageURL(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, image)
}

// Rating godoc
// @ID           getProductRating
// @Summary      Get the average approved rating of a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.RatingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/rating [get]
func (h *ProductHandler) Rating(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	rating, err := h.productService.Rating(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rating)
}
