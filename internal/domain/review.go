package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a product bought in a delivered order
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	SellerID   uuid.UUID `json:"seller_id" db:"seller_id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RatingSummary is the re-aggregated rating of a product or seller.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
