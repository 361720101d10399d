package transport

import (
	"errors"
	"net/http"

	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/repository"
	"inventory-tracker/internal/service"

	"go.uber.org/zap"
)

// statusFor maps service and repository sentinels to HTTP statuses
var statusFor = []struct {
	err    error
	status int
}{
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrTokenExpired, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{repository.ErrItemNotFound, http.StatusNotFound},
	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrQRLimitReached, http.StatusConflict},
	{service.ErrItemNameRequired, http.StatusBadRequest},
	{service.ErrNegativeQuantity, http.StatusBadRequest},
	{service.ErrInvalidReviewLink, http.StatusBadRequest},
}

// respondWithServiceError writes the status matching err. Unknown errors are
// logged and reported with the generic fallback message.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			logger.Debug("Request rejected", zap.Error(err), zap.Int("status", m.status))
			middleware.RespondWithError(w, m.status, m.err.Error())
			return
		}
	}

	logger.Error(fallback, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
}
