package review

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/google/uuid"
)

// CreateReviewRequest submits a rating for a product. New reviews await moderation.
type CreateReviewRequest struct {
	ProductID  uuid.UUID  `json:"product_id" binding:"required"`
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	Rating     int        `json:"rating" binding:"required,min=1,max=5"`
	Title      string     `json:"title" binding:"max=200"`
	Body       string     `json:"body" binding:"max=5000"`
	CreatedBy  *uuid.UUID `json:"-"`
}

// ReviewListFilter represents filter options for the review list
type ReviewListFilter struct {
	appshared.ListQuery
	ProductID  string `form:"product_id" binding:"omitempty,uuid"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	ProductID  uuid.UUID `json:"product_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Body       string    `json:"body,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		TenantID:   r.TenantID,
		ProductID:  r.ProductID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func ToReviewResponses(reviews []review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}
