package transport

import (
	"net/http"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePaymentRequest asks the gateway for a checkout order
type CreatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// VerifyPaymentRequest carries the checkout widget callback fields
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// PaymentHandler handles HTTP requests for online payments
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/payment", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole(h.logger, domain.RoleCustomer))

		r.With(rateLimit).Post("/create-order", h.CreateOrder)
		r.Post("/verify", h.Verify)
	})
}

// CreateOrder opens a payment intent with the gateway
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	checkout, err := h.paymentService.CreatePaymentIntent(r.Context(), customerID, req.Amount)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Payment intent created",
		zap.String("customer_id", customerID.String()),
		zap.String("provider_order_id", checkout.OrderID),
	)
	middleware.RespondWithJSON(w, http.StatusOK, checkout)
}

// Verify checks a checkout signature without placing an order
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	if err := h.paymentService.VerifyPayment(req.OrderID, req.PaymentID, req.Signature); err != nil {
		h.logger.Warn("Payment signature rejected", zap.String("provider_order_id", req.OrderID))
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
