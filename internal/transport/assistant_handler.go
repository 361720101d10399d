package transport

import (
	"errors"
	"io"
	"net/http"

	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssistantRequest is a question for the stock assistant
type AssistantRequest struct {
	Message string `json:"message" validate:"max=2000"`
	Locale  string `json:"locale" validate:"max=35"`
}

// SuggestionsRequest selects the language of the saved plan
type SuggestionsRequest struct {
	Locale string `json:"locale"`
}

// AssistantHandler handles HTTP requests for the stock assistant
type AssistantHandler struct {
	assistant service.AssistantService
	logger    *zap.Logger
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(assistant service.AssistantService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, logger: logger}
}

// RegisterRoutes registers all assistant routes. limit runs after
// authentication so callers are limited per user.
func (h *AssistantHandler) RegisterRoutes(r chi.Router, authMiddleware, limit func(http.Handler) http.Handler) {
	r.Route("/api/assistant", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/intro", h.Intro)

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/", h.Ask)
			r.Post("/suggestions", h.SaveSuggestions)
		})
	})
}

// Ask answers a question about the caller's current stock
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	resp, err := h.assistant.Ask(r.Context(), req.Message, middleware.Locale(r.Context(), req.Locale))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load items")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// SaveSuggestions stores the current restock plan in the activity log
func (h *AssistantHandler) SaveSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := middleware.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	suggestion, err := h.assistant.SaveSuggestions(r.Context(), middleware.Locale(r.Context(), req.Locale))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save suggestions")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, suggestion)
}

// Intro returns the assistant greeting in the request locale
func (h *AssistantHandler) Intro(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"text": h.assistant.Intro(middleware.Locale(r.Context(), "")),
	})
}
