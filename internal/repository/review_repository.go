package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"craftkart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrReviewAlreadyExists = errors.New("review for this product already exists")
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Exists(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	ProductSummary(ctx context.Context, productID uuid.UUID) (domain.RatingSummary, error)
	SellerSummary(ctx context.Context, sellerID uuid.UUID) (domain.RatingSummary, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review; the (customer_id, product_id) unique key rejects duplicates
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, customer_id, product_id, seller_id, order_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.CustomerID,
		review.ProductID,
		review.SellerID,
		review.OrderID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "reviews_customer_product_key") {
			return ErrReviewAlreadyExists
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) Exists(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE customer_id = $1 AND product_id = $2)`,
		customerID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return exists, nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, product_id, seller_id, order_id, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.CustomerID,
			&review.ProductID,
			&review.SellerID,
			&review.OrderID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// ProductSummary re-aggregates every review of a product
func (r *reviewRepository) ProductSummary(ctx context.Context, productID uuid.UUID) (domain.RatingSummary, error) {
	return r.summary(ctx, `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE product_id = $1`, productID)
}

// SellerSummary re-aggregates every review across a seller's products
func (r *reviewRepository) SellerSummary(ctx context.Context, sellerID uuid.UUID) (domain.RatingSummary, error) {
	return r.summary(ctx, `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE seller_id = $1`, sellerID)
}

func (r *reviewRepository) summary(ctx context.Context, query string, id uuid.UUID) (domain.RatingSummary, error) {
	var summary domain.RatingSummary
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&summary.Average, &summary.Count); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return summary, nil
}
