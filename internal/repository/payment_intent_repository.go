package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"craftkart/internal/domain"
)

var (
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
)

// PaymentIntentRepository defines the interface for payment intent data access.
// Intents are consumed by OrderRepository.Create.
type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *domain.PaymentIntent) error
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error)
}

type paymentIntentRepository struct {
	db *sql.DB
}

// NewPaymentIntentRepository creates a new instance of PaymentIntentRepository
func NewPaymentIntentRepository(db *sql.DB) PaymentIntentRepository {
	return &paymentIntentRepository{db: db}
}

func (r *paymentIntentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (id, provider_order_id, customer_id, amount, currency, status, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		intent.ID,
		intent.ProviderOrderID,
		intent.CustomerID,
		intent.Amount,
		intent.Currency,
		intent.Status,
		intent.PaymentID,
		intent.CreatedAt,
		intent.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create payment intent: %w", err)
	}

	return nil
}

func (r *paymentIntentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error) {
	query := `
		SELECT id, provider_order_id, customer_id, amount, currency, status, payment_id, created_at, updated_at
		FROM payment_intents
		WHERE provider_order_id = $1
	`

	intent := &domain.PaymentIntent{}
	err := r.db.QueryRowContext(ctx, query, providerOrderID).Scan(
		&intent.ID,
		&intent.ProviderOrderID,
		&intent.CustomerID,
		&intent.Amount,
		&intent.Currency,
		&intent.Status,
		&intent.PaymentID,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentIntentNotFound
		}
		return nil, fmt.Errorf("failed to find payment intent: %w", err)
	}

	return intent, nil
}
