package transport

import (
	"net/http"
	"strconv"
	"time"

	"inventory-tracker/internal/activity"
	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/repository"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActivityHandler serves the localized activity feed
type ActivityHandler struct {
	inventory service.InventoryService
	bundle    *i18n.Bundle
	logger    *zap.Logger
	now       func() time.Time
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(inventory service.InventoryService, bundle *i18n.Bundle, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{inventory: inventory, bundle: bundle, logger: logger, now: time.Now}
}

// RegisterRoutes registers the activity routes
func (h *ActivityHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/api/activity", h.List)
}

// List returns up to ?limit= entries, newest first
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := repository.MaxActivityEntries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.inventory.ListActivity(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load activity")
		return
	}

	tr := h.bundle.Translator(middleware.Locale(r.Context(), ""))
	middleware.RespondWithJSON(w, http.StatusOK, activity.Present(entries, h.now(), tr))
}
