package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths resolves the locations the report reads from and writes to.
type Paths struct {
	ExecutableDir string
	WorkingDir    string
	DataFile      string
	ReportsDir    string
	LogsDir       string
}

// GetPaths resolves cfg's relative paths. A relative dataset path is looked
// up in the working directory first and next to the executable second.
func GetPaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}

	p := &Paths{
		ExecutableDir: filepath.Dir(exe),
		WorkingDir:    wd,
	}
	p.DataFile = p.resolveInput(cfg.Data.CSVPath)
	p.ReportsDir = p.resolveOutput(cfg.Report.OutputDir)
	p.LogsDir = filepath.Dir(p.resolveOutput(cfg.Logging.FilePath))

	return p, nil
}

func (p *Paths) resolveInput(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if candidate := filepath.Join(p.WorkingDir, path); FileExists(candidate) {
		return candidate
	}
	if candidate := filepath.Join(p.ExecutableDir, path); FileExists(candidate) {
		return candidate
	}
	// Neither exists; keep the working-directory form so the load error
	// names the path the user most likely meant.
	return filepath.Join(p.WorkingDir, path)
}

func (p *Paths) resolveOutput(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.WorkingDir, path)
}

// GetReportPath returns filename inside the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs every resolved path at debug level.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved application paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("working_dir", p.WorkingDir),
		slog.String("data_file", p.DataFile),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir))
}
