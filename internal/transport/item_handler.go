package transport

import (
	"net/http"

	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdjustRequest changes an item's quantity by Delta
type AdjustRequest struct {
	Delta *float64 `json:"delta" validate:"required"`
}

// ItemHandler handles HTTP requests for the caller's items
type ItemHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(inventory service.InventoryService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{inventory: inventory, logger: logger}
}

// RegisterRoutes registers all item routes
func (h *ItemHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/items", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.LowStock)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/adjust", h.Adjust)
		})
	})
}

// List returns the caller's items, newest first, optionally filtered by ?q=
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load items")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// LowStock returns the caller's items at or below their minimum stock
func (h *ItemHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.LowStockItems(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load items")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Get returns a single item
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.inventory.GetItem(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Create adds an item and records its activity
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.inventory.CreateItem(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Update replaces an item's fields
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var in service.ItemInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.inventory.UpdateItem(r.Context(), id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Adjust adds delta to an item's quantity; the result may not go below zero
func (h *ItemHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req AdjustRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.inventory.AdjustQuantity(r.Context(), id, *req.Delta)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Delete removes an item
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.inventory.DeleteItem(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return uuid.Nil, false
	}
	return id, true
}
