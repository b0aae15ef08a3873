package exporter

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salarypulse/internal/config"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/shared/testutil"
)

func TestWorkbookExporter_Export(t *testing.T) {
	tempDir := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	exporter := NewWorkbookExporter(&config.Paths{ReportsDir: tempDir}, logger)

	require.NoError(t, exporter.Export("salary.xlsx", fixtureTables(t)))
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Workbook written")

	f, err := excelize.OpenFile(filepath.Join(tempDir, "salary.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"s1_b3", "s3_b3"}, f.GetSheetList())

	rows, err := f.GetRows("s1_b3")
	require.NoError(t, err)
	require.Len(t, rows, 25)
	assert.Equal(t, append([]string{"year"}, testutil.Sectors...), rows[0])
	assert.Equal(t, "2000", rows[1][0])
	assert.Equal(t, "2000", rows[1][1])

	rows, err = f.GetRows("s3_b3")
	require.NoError(t, err)
	assert.Equal(t, "overall", rows[0][1])
	assert.Equal(t, "250", rows[1][1])
}

func TestWorkbookExporter_Empty(t *testing.T) {
	exporter := NewWorkbookExporter(nil, nil)
	err := exporter.Export(filepath.Join(t.TempDir(), "x.xlsx"), map[string]*dataset.DerivedTable{})
	assert.True(t, errors.Is(err, apierrors.ErrEmptyTable))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "s1_b3", sheetName("s1_b3"))
	assert.Len(t, sheetName("a_very_long_table_key_that_exceeds_excel_limits"), maxSheetName)
}
