package review

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles product reviews and their moderation
type ReviewService struct {
	reviewRepo   review.ReviewRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

func NewReviewService(
	reviewRepo review.ReviewRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create stores a pending review. A customer reviews a product at most once.
func (s *ReviewService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForCustomer(ctx, tenantID, req.ProductID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer has already reviewed this product")
	}

	r, err := review.NewReview(tenantID, req.ProductID, req.CustomerID, req.Rating, req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		r.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, r.PullDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish review events", zap.String("review_id", r.ID.String()), zap.Error(err))
	}

	response := ToReviewResponse(r)
	return &response, nil
}

func (s *ReviewService) GetByID(ctx context.Context, tenantID, reviewID uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForTenant(ctx, tenantID, reviewID)
	if err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	return &response, nil
}

func (s *ReviewService) List(ctx context.Context, tenantID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	domainFilter := filter.ToFilter()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	for key, raw := range map[string]string{"product_id": filter.ProductID, "customer_id": filter.CustomerID} {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", key+" must be a UUID")
		}
		domainFilter.Filters[key] = id
	}

	reviews, err := s.reviewRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reviewRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReviewResponses(reviews), total, nil
}

// Approve publishes the review into the product rating
func (s *ReviewService) Approve(ctx context.Context, tenantID, reviewID uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, tenantID, reviewID, (*review.Review).Approve)
}

func (s *ReviewService) Reject(ctx context.Context, tenantID, reviewID uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, tenantID, reviewID, (*review.Review).Reject)
}

func (s *ReviewService) moderate(ctx context.Context, tenantID, reviewID uuid.UUID, apply func(*review.Review) error) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForTenant(ctx, tenantID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := apply(r); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	return &response, nil
}

func (s *ReviewService) Delete(ctx context.Context, tenantID, reviewID uuid.UUID) error {
	if _, err := s.reviewRepo.FindByIDForTenant(ctx, tenantID, reviewID); err != nil {
		return err
	}
	return s.reviewRepo.DeleteForTenant(ctx, tenantID, reviewID)
}
