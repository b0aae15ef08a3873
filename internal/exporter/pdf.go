package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"salarypulse/internal/config"
	apierrors "salarypulse/internal/errors"
)

// PDFExporter prints rendered HTML to PDF with headless Chrome.
type PDFExporter struct {
	paths   *config.Paths
	logger  *slog.Logger
	timeout time.Duration
	opts    []chromedp.ExecAllocatorOption
}

// NewPDFExporter creates an exporter. The browser is started per export
// and stopped afterwards.
func NewPDFExporter(paths *config.Paths, logger *slog.Logger, timeout time.Duration) *PDFExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
	)
	return &PDFExporter{
		paths:   paths,
		logger:  logger.With(slog.String("component", "pdf_exporter")),
		timeout: timeout,
		opts:    opts,
	}
}

// Export prints html to path in landscape with backgrounds.
func (e *PDFExporter) Export(ctx context.Context, html []byte, path string) error {
	if !filepath.IsAbs(path) && e.paths != nil {
		path = e.paths.GetReportPath(path)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return apierrors.NewExportError("failed to print page to PDF", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apierrors.NewExportError("failed to create directory", err)
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return apierrors.NewExportError("failed to write PDF", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "PDF written",
		slog.String("path", path),
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
