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

// ReviewRequest represents the review payload. Rating is range-checked by the review service.
type ReviewRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	OrderID   uuid.UUID `json:"orderId" validate:"required"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

// ReviewHandler handles HTTP requests for product reviews
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/product/{id}", h.ListForProduct)

		r.With(authMiddleware, middleware.RequireRole(h.logger, domain.RoleCustomer)).Post("/", h.Submit)
	})
}

// Submit records a review for a delivered purchase
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Review validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	review, err := h.reviewService.Submit(r.Context(), customerID, service.ReviewInput{
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", review.ProductID.String()),
		zap.Int("rating", review.Rating),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForProduct(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}
