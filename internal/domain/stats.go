package domain

import "github.com/shopspring/decimal"

// AdminStats backs the admin dashboard.
type AdminStats struct {
	Customers        int             `json:"customers"`
	Sellers          int             `json:"sellers"`
	PendingSellers   int             `json:"pending_sellers"`
	Products         int             `json:"products"`
	PendingProducts  int             `json:"pending_products"`
	Orders           int             `json:"orders"`
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
}

// SellerStats backs the seller dashboard.
type SellerStats struct {
	Products         int             `json:"products"`
	ApprovedProducts int             `json:"approved_products"`
	Orders           int             `json:"orders"`
	UnitsDelivered   int             `json:"units_delivered"`
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
	Rating           RatingSummary   `json:"rating"`
}
