package review

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeReview = "Review"

const EventTypeReviewCreated = "ReviewCreated"

type ReviewCreatedEvent struct {
	shared.BaseDomainEvent
	ReviewID   uuid.UUID `json:"review_id"`
	ProductID  uuid.UUID `json:"product_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
}

func NewReviewCreatedEvent(r *Review) *ReviewCreatedEvent {
	return &ReviewCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewCreated, AggregateTypeReview, r.ID, r.TenantID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		CustomerID:      r.CustomerID,
		Rating:          r.Rating,
	}
}
