package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSellerNotVerified  = errors.New("seller is not verified yet, wait for admin approval")
	ErrPaymentProvider    = errors.New("payment provider error")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrPaymentMismatch    = errors.New("payment does not match order")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnsupportedFile    = errors.New("unsupported file type")
)
