package service

import (
	"context"
	"fmt"
	"time"

	"craftkart/internal/config"
	"craftkart/internal/domain"
	"craftkart/internal/payment"
	"craftkart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutOrder is what the client needs to open the payment widget.
type CheckoutOrder struct {
	OrderID  string          `json:"orderId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	KeyID    string          `json:"keyId"`
}

// PaymentService defines the interface for payment capture
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*CheckoutOrder, error)
	VerifyPayment(orderID, paymentID, signature string) error
}

type paymentService struct {
	provider   payment.Provider
	intentRepo repository.PaymentIntentRepository
	cfg        config.RazorpayConfig
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(provider payment.Provider, intentRepo repository.PaymentIntentRepository, cfg config.RazorpayConfig) PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &paymentService{provider: provider, intentRepo: intentRepo, cfg: cfg}
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*CheckoutOrder, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be at least 0.01", ErrValidation)
	}

	intentID := uuid.New()
	providerOrderID, err := s.provider.CreateOrder(ctx, amount, s.cfg.Currency, "rcpt_"+intentID.String()[:8])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	now := time.Now()
	intent := &domain.PaymentIntent{
		ID:              intentID,
		ProviderOrderID: providerOrderID,
		CustomerID:      customerID,
		Amount:          amount,
		Currency:        s.cfg.Currency,
		Status:          domain.PaymentIntentCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	return &CheckoutOrder{
		OrderID:  providerOrderID,
		Amount:   amount,
		Currency: s.cfg.Currency,
		KeyID:    s.cfg.KeyID,
	}, nil
}

func (s *paymentService) VerifyPayment(orderID, paymentID, signature string) error {
	if !payment.VerifySignature(orderID, paymentID, signature, s.cfg.KeySecret) {
		return ErrInvalidSignature
	}
	return nil
}
