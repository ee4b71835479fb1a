package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/repository"

	"github.com/google/uuid"
)

type ReviewInput struct {
	ProductID uuid.UUID
	OrderID   uuid.UUID
	Rating    int
	Comment   string
}

// ReviewService defines the interface for review business logic
type ReviewService interface {
	Submit(ctx context.Context, customerID uuid.UUID, in ReviewInput) (*domain.Review, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// Submit stores a review of a product the customer received, then
// recomputes the product and seller rating aggregates.
func (s *reviewService) Submit(ctx context.Context, customerID uuid.UUID, in ReviewInput) (*domain.Review, error) {
	// A repeat review is a conflict whatever else is wrong with it
	exists, err := s.reviewRepo.Exists(ctx, customerID, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, repository.ErrReviewAlreadyExists
	}

	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, domain.MinRating, domain.MaxRating)
	}

	order, err := s.orderRepo.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: order has not been delivered", ErrValidation)
	}
	if !order.ContainsProduct(in.ProductID) {
		return nil, fmt.Errorf("%w: order does not contain this product", ErrValidation)
	}

	product, err := s.productRepo.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		OrderID:    order.ID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.refreshRatings(ctx, product.ID, product.SellerID); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) refreshRatings(ctx context.Context, productID, sellerID uuid.UUID) error {
	productSummary, err := s.reviewRepo.ProductSummary(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to aggregate product rating: %w", err)
	}
	if err := s.productRepo.UpdateRating(ctx, productID, productSummary); err != nil {
		return fmt.Errorf("failed to store product rating: %w", err)
	}

	sellerSummary, err := s.reviewRepo.SellerSummary(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("failed to aggregate seller rating: %w", err)
	}
	if err := s.userRepo.UpdateRating(ctx, sellerID, sellerSummary); err != nil {
		return fmt.Errorf("failed to store seller rating: %w", err)
	}

	return nil
}

func (s *reviewService) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}
