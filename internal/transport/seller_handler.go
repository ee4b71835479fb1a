package transport

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// kycFields maps multipart field names to document kinds.
var kycFields = []struct {
	field string
	kind  domain.DocumentKind
	max   int
}{
	{"aadhaar", domain.DocumentAadhaar, 1},
	{"pan", domain.DocumentPAN, 1},
	{"gst", domain.DocumentGST, 1},
	{"shopLicense", domain.DocumentShopLicense, 1},
	{"extraDocs", domain.DocumentExtra, service.MaxExtraDocuments},
}

// BankRequest represents the payout details payload
type BankRequest struct {
	AccountHolder string `json:"accountHolder" validate:"required,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,numeric,min=6,max=20"`
	IFSC          string `json:"ifsc" validate:"required,len=11,alphanum"`
	BankName      string `json:"bankName" validate:"required,max=100"`
	ShopName      string `json:"shopName" validate:"max=100"`
	Phone         string `json:"phone" validate:"omitempty,e164|numeric"`
}

// SellerHandler handles HTTP requests for the seller panel
type SellerHandler struct {
	sellerService service.SellerService
	maxFileBytes  int64
	logger        *zap.Logger
}

// NewSellerHandler creates a new SellerHandler. maxFileBytes bounds each KYC upload.
func NewSellerHandler(sellerService service.SellerService, maxFileBytes int64, logger *zap.Logger) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
		maxFileBytes:  maxFileBytes,
		logger:        logger,
	}
}

// RegisterRoutes registers all seller routes
func (h *SellerHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/seller", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole(h.logger, domain.RoleSeller))

		r.Post("/kyc", h.SubmitKYC)
		r.Put("/bank", h.UpdateBank)
		r.Get("/products", h.Products)
		r.Get("/orders", h.Orders)
		r.Get("/stats", h.Stats)
		r.Get("/documents", h.Documents)
	})
}

// SubmitKYC stores the uploaded identity and business documents
func (h *SellerHandler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	// every slot at full size plus room for the multipart framing
	slots := int64(len(kycFields) - 1 + service.MaxExtraDocuments)
	r.Body = http.MaxBytesReader(w, r.Body, slots*h.maxFileBytes+1<<20)

	if err := r.ParseMultipartForm(h.maxFileBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "upload is too large")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []service.UploadedFile
	for _, slot := range kycFields {
		headers := r.MultipartForm.File[slot.field]
		if len(headers) > slot.max {
			middleware.RespondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("at most %d file(s) allowed for %s", slot.max, slot.field))
			return
		}

		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				h.logger.Error("Failed to open upload", zap.String("field", slot.field), zap.Error(err))
				middleware.RespondWithError(w, http.StatusBadRequest, "failed to read "+slot.field)
				return
			}
			defer func(f multipart.File) { _ = f.Close() }(f)

			files = append(files, service.UploadedFile{Kind: slot.kind, Size: fh.Size, Content: f})
		}
	}

	documents, err := h.sellerService.SubmitKYC(r.Context(), sellerID, files)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("KYC documents uploaded",
		zap.String("seller_id", sellerID.String()),
		zap.Int("count", len(documents)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, documents)
}

// UpdateBank stores payout and shop details
func (h *SellerHandler) UpdateBank(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req BankRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	seller, err := h.sellerService.UpdateBank(r.Context(), sellerID, service.BankInput{
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		BankName:      req.BankName,
		ShopName:      req.ShopName,
		Phone:         req.Phone,
	})
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Seller bank details updated", zap.String("seller_id", sellerID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, seller)
}

func (h *SellerHandler) Products(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := h.sellerService.Products(r.Context(), sellerID,
		queryInt(r, "page", 1),
		queryInt(r, "page_size", service.DefaultPageSize),
	)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// Orders lists orders containing the seller's products, trimmed to their lines
func (h *SellerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.sellerService.Orders(r.Context(), sellerID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *SellerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.sellerService.Stats(r.Context(), sellerID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *SellerHandler) Documents(w http.ResponseWriter, r *http.Request) {
	sellerID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	documents, err := h.sellerService.Documents(r.Context(), sellerID)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, documents)
}
