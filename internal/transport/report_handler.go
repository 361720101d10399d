package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/metrics"
	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/report"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type renderFunc func(io.Writer, report.Report, *i18n.Translator) error

// ReportHandler renders printable inventory reports
type ReportHandler struct {
	inventory service.InventoryService
	bundle    *i18n.Bundle
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(inventory service.InventoryService, bundle *i18n.Bundle, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{inventory: inventory, bundle: bundle, logger: logger, now: time.Now}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/inventory.html", h.render("html", "text/html; charset=utf-8", report.RenderHTML))
		r.Get("/inventory.pdf", h.render("pdf", "application/pdf", report.RenderPDF))
	})
}

func (h *ReportHandler) render(format, contentType string, fn renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.inventory.ListItems(r.Context(), "")
		if err != nil {
			respondWithServiceError(w, h.logger, err, "failed to load items")
			return
		}

		now := h.now()
		tr := h.bundle.Translator(middleware.Locale(r.Context(), ""))

		var buf bytes.Buffer
		if err := fn(&buf, report.Build(items, now), tr); err != nil {
			h.logger.Error("Failed to render report", zap.String("format", format), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to render report")
			return
		}
		metrics.ReportsRendered.WithLabelValues(format).Inc()

		filename := strings.TrimSuffix(report.Filename(now), ".pdf") + "." + format
		disposition := "inline"
		if format == "pdf" {
			disposition = "attachment"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}
