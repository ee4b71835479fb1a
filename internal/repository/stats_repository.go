package repository

import (
	"context"
	"database/sql"
	"fmt"

	"craftkart/internal/domain"

	"github.com/google/uuid"
)

// StatsRepository runs the dashboard aggregate queries
type StatsRepository interface {
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	SellerStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error)
}

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'customer'),
			(SELECT COUNT(*) FROM users WHERE role = 'seller'),
			(SELECT COUNT(*) FROM users WHERE role = 'seller' AND NOT is_verified),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE NOT approved),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'delivered')
	`).Scan(
		&stats.Customers,
		&stats.Sellers,
		&stats.PendingSellers,
		&stats.Products,
		&stats.PendingProducts,
		&stats.Orders,
		&stats.DeliveredRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute admin stats: %w", err)
	}

	return stats, nil
}

func (r *statsRepository) SellerStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	stats := &domain.SellerStats{}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products WHERE seller_id = $1),
			(SELECT COUNT(*) FROM products WHERE seller_id = $1 AND approved),
			(SELECT COUNT(DISTINCT order_id) FROM order_items WHERE seller_id = $1),
			(SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi
				JOIN orders o ON o.id = oi.order_id
				WHERE oi.seller_id = $1 AND o.status = 'delivered'),
			(SELECT COALESCE(SUM(oi.price * oi.quantity), 0) FROM order_items oi
				JOIN orders o ON o.id = oi.order_id
				WHERE oi.seller_id = $1 AND o.status = 'delivered'),
			COALESCE((SELECT rating_average FROM users WHERE id = $1), 0),
			COALESCE((SELECT rating_count FROM users WHERE id = $1), 0)
	`, sellerID).Scan(
		&stats.Products,
		&stats.ApprovedProducts,
		&stats.Orders,
		&stats.UnitsDelivered,
		&stats.DeliveredRevenue,
		&stats.Rating.Average,
		&stats.Rating.Count,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	return stats, nil
}
