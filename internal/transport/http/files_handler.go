package http

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/files"
	"salarypulse/internal/middleware"
)

// FilesHandler lists and serves exported report artifacts.
type FilesHandler struct {
	discovery    *files.Discovery
	validator    *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(discovery *files.Discovery, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FilesHandler {
	return &FilesHandler{
		discovery:    discovery,
		validator:    middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "files_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the file routes, mounted under /api/files.
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListFiles)
	r.Get("/*", h.DownloadFile)
	return r
}

// ListFiles handles GET /api/files, optionally filtered by ?kind=.
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.validator.ValidateEnum(w, r, "kind",
		[]string{files.KindHTML, files.KindCSV, files.KindXLSX, files.KindPDF}, "")
	if !ok {
		return
	}

	found, err := h.discovery.List()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if kind != "" {
		found = files.FilterByKind(found, kind)
		if found == nil {
			found = []files.FileInfo{}
		}
	}

	render.JSON(w, r, map[string]interface{}{
		"files": found,
		"count": len(found),
	})
}

// DownloadFile handles GET /api/files/{path} as an attachment.
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	full, err := h.discovery.Resolve(rel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "serving report file", slog.String("path", rel))
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(rel)+`"`)
	http.ServeFile(w, r, full)
}
