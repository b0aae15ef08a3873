package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"salarypulse/internal/config"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM for Excel
}

// WriteCSV writes data to a CSV file with the given options, replacing any
// existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	stream, err := w.createStream(fullPath, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}
	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return apierrors.NewExportError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}
	return stream.Close()
}

// WriteTable writes table with year as the first column, one row per year.
func (w *CSVWriter) WriteTable(filePath string, table *dataset.DerivedTable) error {
	if table == nil {
		return apierrors.NewEmptyTableError()
	}
	records := table.Records()
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   records[0],
		Records:   records[1:],
		BOMPrefix: true,
	})
}

// EncodeTable writes table as CSV to w without a BOM.
func EncodeTable(w io.Writer, table *dataset.DerivedTable) error {
	if table == nil {
		return apierrors.NewEmptyTableError()
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table.Records()); err != nil {
		return apierrors.NewExportError("failed to encode table", err)
	}
	return nil
}

// WriteTables writes each table to dir/<key>.csv and returns the paths
// written, in key order.
func (w *CSVWriter) WriteTables(dir string, tables map[string]*dataset.DerivedTable) ([]string, error) {
	written := make([]string, 0, len(tables))
	for _, key := range sortedKeys(tables) {
		path := filepath.Join(dir, key+".csv")
		if err := w.WriteTable(path, tables[key]); err != nil {
			return written, err
		}
		written = append(written, w.resolvePath(path))
	}
	return written, nil
}

// StreamWriter writes CSV rows one at a time.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

func (w *CSVWriter) createStream(fullPath string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, apierrors.NewExportError("failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, apierrors.NewExportError("failed to create file", err).WithContext("path", fullPath)
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, apierrors.NewExportError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, apierrors.NewExportError("failed to write headers", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return apierrors.NewExportError("failed to flush CSV", err)
	}
	return s.file.Close()
}

// resolvePath keeps absolute paths and puts relative ones under the
// reports directory.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
