package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"salarypulse/internal/config"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// WorkbookExporter writes derived tables into one XLSX file, a sheet per
// table.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{paths: paths, logger: logger.With(slog.String("component", "xlsx_exporter"))}
}

// Export writes tables to path. Sheets are named by key, in key order.
func (e *WorkbookExporter) Export(path string, tables map[string]*dataset.DerivedTable) (err error) {
	if len(tables) == 0 {
		return apierrors.NewEmptyTableError()
	}
	if !filepath.IsAbs(path) && e.paths != nil {
		path = e.paths.GetReportPath(path)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apierrors.NewExportError("failed to close workbook", cerr)
		}
	}()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E2EC"}},
	})
	if err != nil {
		return apierrors.NewExportError("failed to create header style", err)
	}

	keys := sortedKeys(tables)
	for i, key := range keys {
		sheet := sheetName(key)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return apierrors.NewExportError("failed to rename sheet", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return apierrors.NewExportError("failed to add sheet "+sheet, err)
		}
		if err := writeSheet(f, sheet, tables[key], header); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apierrors.NewExportError("failed to create directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apierrors.NewExportError("failed to save workbook", err).WithContext("path", path)
	}

	e.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(keys)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *dataset.DerivedTable, headerStyle int) error {
	view := table.View()

	header := make([]interface{}, 0, len(view.Columns)+1)
	header = append(header, dataset.YearColumn)
	for _, c := range view.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apierrors.NewExportError("failed to write header of "+sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return apierrors.NewExportError("failed to address header", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return apierrors.NewExportError("failed to style header", err)
	}

	for i, year := range view.Years {
		row := make([]interface{}, 0, len(view.Columns)+1)
		row = append(row, year)
		for _, values := range view.Values {
			row = append(row, values[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apierrors.NewExportError("failed to address row", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apierrors.NewExportError(fmt.Sprintf("failed to write row %d of %s", i+2, sheet), err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return apierrors.NewExportError("failed to address columns", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 14); err != nil {
		return apierrors.NewExportError("failed to size columns", err)
	}
	return nil
}

func sheetName(key string) string {
	if len(key) > maxSheetName {
		return key[:maxSheetName]
	}
	return key
}

func sortedKeys(tables map[string]*dataset.DerivedTable) []string {
	keys := make([]string, 0, len(tables))
	for k := range tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
