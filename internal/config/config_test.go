package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "rocket_r", cfg.Chart.Palette)
	assert.Equal(t, 12.0, cfg.Chart.Width)
	assert.Equal(t, 5.0, cfg.Chart.Height)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
data:
  csv_path: /data/salaries.csv
  nominal_columns: [overall, mining, finance]
chart:
  format: png
  palette: mako
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "keys absent from the file keep their default")
	assert.Equal(t, "/data/salaries.csv", cfg.Data.CSVPath)
	assert.Equal(t, []string{"overall", "mining", "finance"}, cfg.Data.NominalColumns)
	assert.Equal(t, "png", cfg.Chart.Format)
	assert.Equal(t, "mako", cfg.Chart.Palette)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("SALARY_SERVER_PORT", "7070")
	t.Setenv("SALARY_DATA_CSV_PATH", "env.csv")
	t.Setenv("SALARY_DATA_NOMINAL_COLUMNS", "overall,mining")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env.csv", cfg.Data.CSVPath)
	assert.Equal(t, []string{"overall", "mining"}, cfg.Data.NominalColumns)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad format":   "chart:\n  format: gif\n",
		"bad port":     "server:\n  port: 70000\n",
		"bad exporter": "telemetry:\n  metric_exporter: statsd\n",
		"bad ratio":    "telemetry:\n  sample_ratio: 2\n",
		"bad yaml":     "server: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaultsLogFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logging:\n  output: both\n"))
	require.NoError(t, err)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestGetPaths(t *testing.T) {
	wd := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(wd))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	require.NoError(t, os.WriteFile(filepath.Join(wd, "salaries.csv"), []byte("year\n"), 0644))

	cfg := Default()
	cfg.Data.CSVPath = "salaries.csv"
	cfg.Report.OutputDir = "out"
	cfg.Logging.FilePath = "logs/app.log"

	paths, err := GetPaths(cfg)
	require.NoError(t, err)

	realWD, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realWD, "salaries.csv"), paths.DataFile)
	assert.Equal(t, filepath.Join(realWD, "out"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(realWD, "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(realWD, "out", "x.html"), paths.GetReportPath("x.html"))

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)

	cfg.Data.CSVPath = "/abs/data.csv"
	paths, err = GetPaths(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/abs/data.csv", paths.DataFile)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "b.csv")))
}
