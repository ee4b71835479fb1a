package transport

import (
	"errors"
	"net/http"
	"strconv"

	"craftkart/internal/domain"
	"craftkart/internal/middleware"
	"craftkart/internal/repository"
	"craftkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentProviderErrorCode marks gateway failures in the error body.
const PaymentProviderErrorCode = "PaymentProviderError"

var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrInvalidSignature, http.StatusBadRequest},
	{service.ErrPaymentMismatch, http.StatusBadRequest},
	{service.ErrUnsupportedFile, http.StatusBadRequest},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrSellerNotVerified, http.StatusForbidden},
	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrProductNotFound, http.StatusNotFound},
	{repository.ErrCategoryNotFound, http.StatusNotFound},
	{repository.ErrOrderNotFound, http.StatusNotFound},
	{repository.ErrPaymentIntentNotFound, http.StatusNotFound},
	{repository.ErrUserAlreadyExists, http.StatusConflict},
	{repository.ErrCategoryAlreadyExists, http.StatusConflict},
	{repository.ErrReviewAlreadyExists, http.StatusConflict},
	{repository.ErrInsufficientStock, http.StatusConflict},
	{repository.ErrPaymentIntentAlreadyUsed, http.StatusConflict},
	{repository.ErrOrderStatusChanged, http.StatusConflict},
	{service.ErrInvalidTransition, http.StatusConflict},
}

// respondWithServiceError maps domain errors to HTTP responses. Unknown
// errors are logged and answered with an opaque 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if errors.Is(err, service.ErrPaymentProvider) {
		logger.Error("Payment provider failed", zap.Error(err))
		middleware.RespondWithErrorCode(w, http.StatusBadGateway, PaymentProviderErrorCode, "payment provider is unavailable", nil)
		return
	}

	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			logger.Debug("Request rejected",
				zap.String("path", r.URL.Path),
				zap.Int("status", m.status),
				zap.Error(err),
			)
			middleware.RespondWithError(w, m.status, err.Error())
			return
		}
	}

	logger.Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}

// currentUser reads the identity set by the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, domain.Role, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRole(r.Context())
	return userID, role, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

// queryBool returns nil when key is absent or unparsable.
func queryBool(r *http.Request, key string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}
