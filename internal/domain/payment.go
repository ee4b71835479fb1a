package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentIntentStatus string

const (
	PaymentIntentCreated PaymentIntentStatus = "created"
	PaymentIntentPaid    PaymentIntentStatus = "paid"
)

// PaymentIntent records a provider order created for a customer.
type PaymentIntent struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	ProviderOrderID string              `json:"provider_order_id" db:"provider_order_id"`
	CustomerID      uuid.UUID           `json:"customer_id" db:"customer_id"`
	Amount          decimal.Decimal     `json:"amount" db:"amount"`
	Currency        string              `json:"currency" db:"currency"`
	Status          PaymentIntentStatus `json:"status" db:"status"`
	PaymentID       string              `json:"payment_id,omitempty" db:"payment_id"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}
