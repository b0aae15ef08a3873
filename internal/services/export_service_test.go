package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/config"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/exporter"
	"salarypulse/internal/shared/testutil"
)

type fakePrinter struct {
	err  error
	html []byte
}

func (p *fakePrinter) Export(ctx context.Context, html []byte, path string) error {
	if p.err != nil {
		return p.err
	}
	p.html = html
	return os.WriteFile(path, []byte("%PDF-1.4"), 0644)
}

func newTestExportService(t *testing.T, printer PDFPrinter) (*ExportService, string) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	reportsDir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, os.MkdirAll(reportsDir, 0755))
	paths := &config.Paths{ReportsDir: reportsDir}

	svc, _ := newTestReportService(t, testutil.DefaultSalaryFixture().WriteCSV(t))
	return NewExportService(svc, paths,
		exporter.NewCSVWriter(paths, logger),
		exporter.NewWorkbookExporter(paths, logger),
		printer, logger), reportsDir
}

func TestExportServiceWritesEveryArtifact(t *testing.T) {
	printer := &fakePrinter{}
	svc, dir := newTestExportService(t, printer)

	files, err := svc.Export(context.Background(), ExportRequest{
		HTMLPath: "report.html",
		CSVDir:   "tables",
		XLSXPath: "report.xlsx",
		PDFPath:  "report.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "report.html"),
		filepath.Join(dir, "report.pdf"),
		filepath.Join(dir, "report.xlsx"),
		filepath.Join(dir, "tables", "s1_b3.csv"),
		filepath.Join(dir, "tables", "s2_b1.csv"),
		filepath.Join(dir, "tables", "s2_b4.csv"),
		filepath.Join(dir, "tables", "s3_b3.csv"),
	}, files)

	for _, f := range files {
		assert.FileExists(t, f)
	}
	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Equal(t, html, printer.html, "the PDF prints the same document")
}

func TestExportServiceErrors(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		svc, _ := newTestExportService(t, nil)
		_, err := svc.Export(context.Background(), ExportRequest{})
		assert.True(t, errors.Is(err, apierrors.ErrExport))
	})

	t.Run("printer not configured", func(t *testing.T) {
		svc, _ := newTestExportService(t, nil)
		_, err := svc.Export(context.Background(), ExportRequest{PDFPath: "report.pdf"})
		assert.True(t, errors.Is(err, apierrors.ErrExport))
	})

	t.Run("printer failure", func(t *testing.T) {
		boom := errors.New("no browser")
		svc, _ := newTestExportService(t, &fakePrinter{err: boom})
		files, err := svc.Export(context.Background(), ExportRequest{PDFPath: "report.pdf", CSVDir: "tables"})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, files)
	})

	t.Run("dataset unavailable", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		reports, _ := newTestReportService(t, filepath.Join(t.TempDir(), "missing.csv"))
		svc := NewExportService(reports, nil, nil, nil, nil, logger)
		_, err := svc.Export(context.Background(), ExportRequest{HTMLPath: filepath.Join(t.TempDir(), "r.html")})
		assert.True(t, errors.Is(err, apierrors.ErrDataUnavailable))
	})
}
