package transport

import (
	"net/http"
	"strings"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/repository"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the create and update product payload
type ProductRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
	Images      []string        `json:"images" validate:"max=10,dive,url"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Stock:       req.Stock,
	}
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/categories", h.Categories)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.With(middleware.RequireRole(h.logger, domain.RoleSeller)).Post("/", h.Create)
			r.With(middleware.RequireRole(h.logger, domain.RoleSeller)).Put("/{id}", h.Update)
			r.With(middleware.RequireRole(h.logger, domain.RoleSeller, domain.RoleAdmin)).Delete("/{id}", h.Delete)
		})
	})
}

// List returns a page of approved products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := service.ListingQuery{
		Page:      queryInt(r, "page", 1),
		PageSize:  queryInt(r, "page_size", service.DefaultPageSize),
		SortBy:    r.URL.Query().Get("sort"),
		SortOrder: repository.SortOrder(strings.ToUpper(r.URL.Query().Get("order"))),
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category")
			return
		}
		q.CategoryID = &categoryID
	}

	page, err := h.catalogService.ListApproved(r.Context(), q)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// Search matches approved products by title or description
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogService.Search(r.Context(),
		r.URL.Query().Get("q"),
		queryInt(r, "page", 1),
		queryInt(r, "page_size", service.DefaultPageSize),
	)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.Categories(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns one approved product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetApproved(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create lists a new product for moderation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), sellerID, req.toInput())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sellerID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update edits an owned product and sends it back to moderation
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), sellerID, productID, req.toInput())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), userID, role, productID); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.String("role", string(role)),
	)
	w.WriteHeader(http.StatusNoContent)
}
