package transport

import (
	"net/http"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VerifySellerRequest grants or revokes seller verification
type VerifySellerRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// ApproveProductRequest sets a product's moderation flag
type ApproveProductRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CategoryRequest represents the create category payload
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// AdminHandler handles HTTP requests for the admin panel
type AdminHandler struct {
	adminService service.AdminService
	orderService service.OrderService
	logger       *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, orderService service.OrderService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole(h.logger, domain.RoleAdmin))

		r.Get("/sellers", h.ListSellers)
		r.Patch("/sellers/{id}/verify", h.VerifySeller)
		r.Get("/sellers/{id}/documents", h.SellerDocuments)

		r.Get("/products", h.ListProducts)
		r.Patch("/products/{id}/approve", h.ApproveProduct)

		r.Get("/orders", h.ListOrders)
		r.Patch("/orders/{id}/status", h.UpdateOrderStatus)

		r.Post("/categories", h.CreateCategory)
		r.Get("/stats", h.Stats)
	})
}

func (h *AdminHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.adminService.ListSellers(r.Context(), queryBool(r, "verified"))
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sellers)
}

// VerifySeller unlocks or locks a seller's catalog access
func (h *AdminHandler) VerifySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req VerifySellerRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	seller, err := h.adminService.VerifySeller(r.Context(), sellerID, *req.Verified)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Seller verification changed",
		zap.String("seller_id", sellerID.String()),
		zap.Bool("verified", *req.Verified),
	)
	middleware.RespondWithJSON(w, http.StatusOK, seller)
}

func (h *AdminHandler) SellerDocuments(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	documents, err := h.adminService.SellerDocuments(r.Context(), sellerID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, documents)
}

// ListProducts returns products in every moderation state
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.adminService.ListProducts(r.Context(),
		queryBool(r, "approved"),
		queryInt(r, "page", 1),
		queryInt(r, "page_size", service.DefaultPageSize),
	)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

func (h *AdminHandler) ApproveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ApproveProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.adminService.ApproveProduct(r.Context(), productID, *req.Approved)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product moderated",
		zap.String("product_id", productID.String()),
		zap.Bool("approved", *req.Approved),
	)
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListOrders returns all orders, optionally filtered by status
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status *domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseOrderStatus(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = &parsed
	}

	orders, err := h.orderService.List(r.Context(), status)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.adminService.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
