package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"insiderdash/internal/config"
	apierrors "insiderdash/internal/errors"
	mw "insiderdash/internal/middleware"
	api "insiderdash/pkg/contracts/api/v1"
	"insiderdash/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(template.FuncMap{
		"selected": func(values []string, v string) bool {
			return slices.Contains(values, v)
		},
	}).ParseFS(templateFS, "templates/dashboard.html"),
)

// dashboardPage is the view model of the dashboard template
type dashboardPage struct {
	Config    config.DashboardConfig
	Options   domain.FilterOptions
	Request   api.DatasetQueryRequest
	DateFrom  string
	DateTo    string
	Table     *domain.TableView
	Error     string
	ExportURL string
	CSVURL    string
	AllURL    string
}

// DashboardHandler renders the dashboard page
type DashboardHandler struct {
	service      DatasetServiceInterface
	validator    *mw.QueryValidator
	dashboard    config.DashboardConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DatasetServiceInterface, validator *mw.QueryValidator, dashboard config.DashboardConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		dashboard:    dashboard,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP handles GET /. Load and validation failures are rendered as a
// message on the page.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := bindExportRequest(r).DatasetQueryRequest

	page := dashboardPage{
		Config:  h.dashboard,
		Request: req,
	}
	status := http.StatusOK

	opts, err := h.service.Options(ctx)
	if err != nil {
		page.Error, status = h.pageError(r, err)
		h.render(w, r, status, &page)
		return
	}
	page.Options = opts

	// a missing bound defaults to the span of the data and is applied, so
	// the table always matches the visible date inputs
	if req.From == "" && opts.MinDate != nil {
		req.From = opts.MinDate.Format(time.DateOnly)
	}
	if req.To == "" && opts.MaxDate != nil {
		req.To = opts.MaxDate.Format(time.DateOnly)
	}
	page.Request = req
	page.DateFrom, page.DateTo = req.From, req.To

	if err := h.validator.ValidateStruct(req); err != nil {
		page.Error, status = h.pageError(r, err)
		h.render(w, r, status, &page)
		return
	}
	sel, err := toSelection(req)
	if err != nil {
		page.Error, status = h.pageError(r, err)
		h.render(w, r, status, &page)
		return
	}

	view, err := h.service.Query(ctx, sel)
	if err != nil {
		page.Error, status = h.pageError(r, err)
		h.render(w, r, status, &page)
		return
	}
	page.Table = &view

	filtered := selectionQuery(req)
	filtered.Set(paramScope, api.ScopeFiltered)
	page.ExportURL = "/api/export.xlsx?" + filtered.Encode()
	page.CSVURL = "/api/export.csv?" + filtered.Encode()
	page.AllURL = "/api/export.xlsx?" + paramScope + "=" + api.ScopeAll

	h.render(w, r, status, &page)
}

// pageError maps err onto the message shown on the page and the status
// the page is served with
func (h *DashboardHandler) pageError(r *http.Request, err error) (string, int) {
	problem := h.errorHandler.ErrorToProblem(err, r)

	h.logger.WarnContext(r.Context(), "dashboard rendered with error",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()))

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		switch d := apiErr.Details.(type) {
		case apierrors.ValidationError:
			return d.Message, problem.Status
		case apierrors.ValidationErrors:
			msgs := make([]string, 0, len(d.Errors))
			for _, e := range d.Errors {
				msgs = append(msgs, e.Message)
			}
			return strings.Join(msgs, "; "), problem.Status
		}
	}

	msg := problem.Detail
	if msg == "" {
		msg = problem.Title
	}
	return msg, problem.Status
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, page *dashboardPage) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
