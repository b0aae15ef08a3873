package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salarypulse/internal/chart"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/exporter"
	"salarypulse/internal/middleware"
	"salarypulse/internal/report"
	"salarypulse/internal/services"
)

// MaxTableLimit bounds the limit query parameter of the tables endpoint.
const MaxTableLimit = 64

// ReportService is what the report handler needs from the service layer.
type ReportService interface {
	Definition() *report.Definition
	HTML(ctx context.Context) ([]byte, error)
	Chart(ctx context.Context, section, block int) (*chart.Image, error)
	Table(ctx context.Context, q services.TableQuery) (*dataset.DerivedTable, error)
	Invalidate()
}

// ReportHandler serves the report page, its charts and table views.
type ReportHandler struct {
	service      ReportService
	validator    *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report API routes, mounted under /api/report.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/tables", h.GetTable)
	r.Get("/definition", h.GetDefinition)
	r.Post("/refresh", h.Refresh)

	r.Route("/charts/{section}/{block}", func(r chi.Router) {
		r.Use(h.ChartCtx)
		r.Get("/", h.GetChart)
	})

	return r
}

type chartPosKey struct{}

type chartPos struct {
	section, block int
}

// ChartCtx validates the 1-based section and block path parameters.
func (h *ReportHandler) ChartCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pos [2]int
		for i, param := range []string{"section", "block"} {
			n, err := strconv.Atoi(chi.URLParam(r, param))
			if err != nil || n < 1 {
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, param+" must be a positive integer"))
				return
			}
			pos[i] = n
		}

		ctx := context.WithValue(r.Context(), chartPosKey{}, chartPos{section: pos[0], block: pos[1]})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPage handles GET / with the rendered report document.
func (h *ReportHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	html, err := h.service.HTML(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// GetChart handles GET /api/report/charts/{section}/{block}.
func (h *ReportHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	pos := r.Context().Value(chartPosKey{}).(chartPos)

	img, err := h.service.Chart(r.Context(), pos.section-1, pos.block-1)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", img.MIMEType())
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

// GetTable handles GET /api/report/tables. An absent pattern returns the
// whole table; pattern= (empty) selects the nominal columns.
func (h *ReportHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	keep, ok := h.validator.ValidateBool(w, r, "keep_overall", true)
	if !ok {
		return
	}
	limit, ok := h.validator.ValidateInt(w, r, "limit", 0, MaxTableLimit, 0)
	if !ok {
		return
	}
	format, ok := h.validator.ValidateEnum(w, r, "format", []string{"json", "csv"}, "json")
	if !ok {
		return
	}

	q := services.TableQuery{KeepOverall: keep, Limit: limit}
	if query := r.URL.Query(); query.Has("pattern") {
		q.Pattern = dataset.Pattern(query.Get("pattern"))
	}

	table, err := h.service.Table(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "table served",
		slog.Int("columns", table.Len()),
		slog.String("format", format))

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="salaries.csv"`)
		if err := exporter.EncodeTable(w, table); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to write table", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, table.View())
}

// GetDefinition handles GET /api/report/definition with the YAML document
// the report is built from.
func (h *ReportHandler) GetDefinition(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Definition().Encode()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Refresh handles POST /api/report/refresh by dropping the cached page.
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate()
	h.logger.InfoContext(r.Context(), "report cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}
