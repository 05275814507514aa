package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	apierrors "insiderdash/internal/errors"
	"insiderdash/internal/exporter"
	mw "insiderdash/internal/middleware"
	"insiderdash/internal/services"
	"insiderdash/pkg/contracts/domain"
)

// ExportHandler serves table downloads
type ExportHandler struct {
	service      DatasetServiceInterface
	validator    *mw.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service DatasetServiceInterface, validator *mw.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// request binds and validates the export parameters
func (h *ExportHandler) request(w http.ResponseWriter, r *http.Request) (string, domain.FilterSelection, bool) {
	req := bindExportRequest(r)
	if !h.validator.Validate(w, r, req) {
		return "", domain.FilterSelection{}, false
	}
	sel, err := toSelection(req.DatasetQueryRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return "", domain.FilterSelection{}, false
	}
	return req.Scope, sel, true
}

// DownloadExcel handles GET /api/export.xlsx
func (h *ExportHandler) DownloadExcel(w http.ResponseWriter, r *http.Request) {
	scope, sel, ok := h.request(w, r)
	if !ok {
		return
	}

	art, err := h.service.ExportExcel(r.Context(), scope, sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeArtifact(w, r, art)
}

// DownloadCSV handles GET /api/export.csv
func (h *ExportHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	scope, sel, ok := h.request(w, r)
	if !ok {
		return
	}

	art, err := h.service.ExportCSV(r.Context(), scope, sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeArtifact(w, r, art)
}

// GetPayload handles GET /api/export, answering the workbook base64-encoded
func (h *ExportHandler) GetPayload(w http.ResponseWriter, r *http.Request) {
	scope, sel, ok := h.request(w, r)
	if !ok {
		return
	}

	payload, err := h.service.ExportPayload(r.Context(), scope, sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   payload,
	})
}

func (h *ExportHandler) writeArtifact(w http.ResponseWriter, r *http.Request, art *services.Artifact) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", exporter.ContentDisposition(art.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(art.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("filename", art.Filename),
			slog.String("error", err.Error()))
	}
}

// ensure the concrete service satisfies the handler contract
var _ DatasetServiceInterface = (*services.DatasetService)(nil)
