package review

import (
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewStatus represents the moderation status of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a product. One per customer and product.
type Review struct {
	shared.TenantAggregateRoot
	ProductID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Rating     int          `gorm:"not null"`
	Title      string       `gorm:"type:varchar(200)"`
	Body       string       `gorm:"type:text"`
	Status     ReviewStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

func (Review) TableName() string {
	return "reviews"
}

func NewReview(tenantID, productID, customerID uuid.UUID, rating int, title, body string) (*Review, error) {
	if productID == uuid.Nil || customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product and customer are required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	r := &Review{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		CustomerID:          customerID,
		Rating:              rating,
		Title:               strings.TrimSpace(title),
		Body:                body,
		Status:              ReviewStatusPending,
	}
	r.AddDomainEvent(NewReviewCreatedEvent(r))
	return r, nil
}

func (r *Review) Approve() error {
	if r.Status == ReviewStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Review is already approved")
	}
	r.Status = ReviewStatusApproved
	r.MarkModified()
	return nil
}

func (r *Review) Reject() error {
	if r.Status == ReviewStatusRejected {
		return shared.NewDomainError("ALREADY_REJECTED", "Review is already rejected")
	}
	r.Status = ReviewStatusRejected
	r.MarkModified()
	return nil
}

// RatingSummary aggregates approved reviews of a product
type RatingSummary struct {
	ProductID uuid.UUID
	Average   float64
	Count     int64
}
