package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role carried in bearer tokens.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User represents an account of any role
type User struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	Email         string      `json:"email" db:"email"`
	PasswordHash  string      `json:"-" db:"password_hash"`
	Role          Role        `json:"role" db:"role"`
	IsVerified    bool        `json:"is_verified" db:"is_verified"`
	ShopName      string      `json:"shop_name,omitempty" db:"shop_name"`
	Phone         string      `json:"phone,omitempty" db:"phone"`
	Bank          BankDetails `json:"bank" db:"-"`
	RatingAverage float64     `json:"rating_average" db:"rating_average"`
	RatingCount   int         `json:"rating_count" db:"rating_count"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// BankDetails holds the payout account of a seller.
type BankDetails struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
}

// IsSeller reports whether the user sells on the marketplace.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}
