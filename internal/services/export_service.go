package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"salarypulse/internal/config"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
)

// TableWriter writes one CSV file per table into a directory.
type TableWriter interface {
	WriteTables(dir string, tables map[string]*dataset.DerivedTable) ([]string, error)
}

// WorkbookWriter writes all tables into one spreadsheet.
type WorkbookWriter interface {
	Export(path string, tables map[string]*dataset.DerivedTable) error
}

// PDFPrinter prints an HTML document to PDF.
type PDFPrinter interface {
	Export(ctx context.Context, html []byte, path string) error
}

// ExportRequest selects the artifacts to write. Empty fields are skipped.
// Relative paths land in the reports directory.
type ExportRequest struct {
	HTMLPath string
	CSVDir   string
	XLSXPath string
	PDFPath  string
}

// Empty reports whether r asks for nothing.
func (r ExportRequest) Empty() bool {
	return r.HTMLPath == "" && r.CSVDir == "" && r.XLSXPath == "" && r.PDFPath == ""
}

// ExportService writes the built report and its plotted tables to disk.
type ExportService struct {
	reports  *ReportService
	paths    *config.Paths
	csv      TableWriter
	workbook WorkbookWriter
	pdf      PDFPrinter
	logger   *slog.Logger
}

// NewExportService creates an export service. Any writer may be nil, in
// which case requests for that artifact fail with an export error.
func NewExportService(reports *ReportService, paths *config.Paths, csv TableWriter, workbook WorkbookWriter, pdf PDFPrinter, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		reports:  reports,
		paths:    paths,
		csv:      csv,
		workbook: workbook,
		pdf:      pdf,
		logger:   logger.With(slog.String("component", "export_service")),
	}
}

// Export builds the report once and writes the requested artifacts
// concurrently. It returns the written files in lexical order; on failure
// the first error wins and the rest are cancelled.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) ([]string, error) {
	if req.Empty() {
		return nil, apierrors.NewExportError("nothing to export", nil)
	}

	start := time.Now()
	page, err := s.reports.Page(ctx)
	if err != nil {
		return nil, err
	}
	html, err := s.reports.HTML(ctx)
	if err != nil {
		return nil, err
	}
	tables := page.Tables()

	var (
		mu    sync.Mutex
		files []string
	)
	done := func(paths ...string) {
		mu.Lock()
		files = append(files, paths...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	if req.HTMLPath != "" {
		g.Go(func() error {
			path := s.resolve(req.HTMLPath)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return apierrors.NewExportError("failed to create directory", err)
			}
			if err := os.WriteFile(path, html, 0644); err != nil {
				return apierrors.NewExportError("failed to write html", err).WithContext("path", path)
			}
			done(path)
			return nil
		})
	}

	if req.CSVDir != "" {
		g.Go(func() error {
			if s.csv == nil {
				return apierrors.NewExportError("csv export is not configured", nil)
			}
			written, err := s.csv.WriteTables(req.CSVDir, tables)
			if err != nil {
				return err
			}
			done(written...)
			return nil
		})
	}

	if req.XLSXPath != "" {
		g.Go(func() error {
			if s.workbook == nil {
				return apierrors.NewExportError("xlsx export is not configured", nil)
			}
			path := s.resolve(req.XLSXPath)
			if err := s.workbook.Export(path, tables); err != nil {
				return err
			}
			done(path)
			return nil
		})
	}

	if req.PDFPath != "" {
		g.Go(func() error {
			if s.pdf == nil {
				return apierrors.NewExportError("pdf export is not configured", nil)
			}
			path := s.resolve(req.PDFPath)
			if err := s.pdf.Export(gctx, html, path); err != nil {
				return err
			}
			done(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Export failed", slog.String("error", err.Error()))
		return nil, err
	}

	sort.Strings(files)
	s.logger.InfoContext(ctx, "Export complete",
		slog.Int("files", len(files)),
		slog.Int("tables", len(tables)),
		slog.Duration("duration", time.Since(start)))
	return files, nil
}

func (s *ExportService) resolve(path string) string {
	if filepath.IsAbs(path) || s.paths == nil {
		return path
	}
	return s.paths.GetReportPath(path)
}
