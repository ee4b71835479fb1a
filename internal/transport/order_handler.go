package transport

import (
	"net/http"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderLineRequest is one cart line. Prices sent by the client are ignored.
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1,lte=100"`
}

// PlaceOrderRequest represents the checkout payload
type PlaceOrderRequest struct {
	Items           []OrderLineRequest    `json:"items" validate:"required,min=1,max=50,dive"`
	ShippingAddress domain.Address        `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod  `json:"paymentMethod" validate:"required,oneof=razorpay cod"`
	Payment         *VerifyPaymentRequest `json:"payment" validate:"required_if=PaymentMethod razorpay"`
}

func (req PlaceOrderRequest) toInput() service.PlaceOrderInput {
	in := service.PlaceOrderInput{
		Items:           make([]service.OrderLineInput, 0, len(req.Items)),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.OrderLineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if req.Payment != nil {
		in.Payment = &service.PaymentProof{
			OrderID:   req.Payment.OrderID,
			PaymentID: req.Payment.PaymentID,
			Signature: req.Payment.Signature,
		}
	}
	return in
}

// OrderHandler handles HTTP requests for customer orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(middleware.RequireRole(h.logger, domain.RoleCustomer)).Post("/", h.Place)
		r.With(middleware.RequireRole(h.logger, domain.RoleCustomer)).Get("/my", h.ListMine)
		r.With(middleware.RequireRole(h.logger, domain.RoleCustomer, domain.RoleAdmin)).Get("/{id}", h.Get)
	})
}

// Place creates an order from the submitted cart
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), customerID, req.toInput())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total", order.TotalAmount.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orderService.ListMine(r.Context(), customerID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get returns an order to its owner or an admin
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(r.Context(), userID, role, orderID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}
