package transport

import (
	"net/http"
	"strconv"

	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QRRequest carries the review link to encode
type QRRequest struct {
	Link string `json:"link" validate:"required,max=2048"`
}

// ReviewHandler handles the review link and its QR codes
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

// RegisterRoutes registers the review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/review", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Profile)
		r.Post("/qr", h.GenerateQR)
	})
}

// Profile returns the caller's review link and remaining QR codes
func (h *ReviewHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.reviews.GetProfile(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load profile")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, profile)
}

// GenerateQR responds with the PNG image; the number of codes the caller
// may still generate is sent in X-QR-Remaining.
func (h *ReviewHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	var req QRRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	code, err := h.reviews.GenerateQR(r.Context(), req.Link)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to generate qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-QR-Remaining", strconv.Itoa(code.Remaining))
	w.WriteHeader(http.StatusCreated)
	w.Write(code.PNG)
}
