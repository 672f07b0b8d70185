package handler

import (
	reviewapp "github.com/anu-devcode/deploy-test-sub002/internal/application/review"
	"github.com/gin-gonic/gin"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List godoc
// @ID           listReviews
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        status query string false "Moderation status" Enums(pending, approved, rejected)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]reviewapp.ReviewResponse]
// @Security     BearerAuth
// @Router       /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter reviewapp.ReviewListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reviews, total, filter.ListQuery)
}

// Create godoc
// @ID           createReview
// @Summary      Submit a product review
// @Description  A customer may review a product once. New reviews await moderation.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body reviewapp.CreateReviewRequest true "Review"
// @Success      201 {object} APIResponse[reviewapp.ReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req reviewapp.CreateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = currentUser(c)

	review, err := h.reviewService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}

// GetByID godoc
// @ID           getReviewById
// @Summary      Get review by ID
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[reviewapp.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	reviewID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetByID(c.Request.Context(), tenantID, reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Delete godoc
// @ID           deleteReview
// @Summary      Delete a review
// @Tags         reviews
// @Param        id path string true "Review ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	reviewID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), tenantID, reviewID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Approve godoc
// @ID           approveReview
// @Summary      Approve a pending review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[reviewapp.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.reviewService.Approve)
}

// Reject godoc
// @ID           rejectReview
// @Summary      Reject a pending review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[reviewapp.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c *gin.Context) {
	runStatusAction(&h.BaseHandler, c, h.reviewService.Reject)
}
