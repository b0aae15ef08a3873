package dataset

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	apierrors "salarypulse/internal/errors"
)

// LoadRecorder receives one call per actual file read.
type LoadRecorder interface {
	RecordDatasetLoad(ctx context.Context, err error)
}

// Loader reads the dataset file at most once and memoizes the outcome,
// success or failure, for the rest of the process.
type Loader struct {
	path     string
	logger   *slog.Logger
	recorder LoadRecorder

	once  sync.Once
	table *SalaryTable
	err   error
	reads atomic.Int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRecorder reports file reads to r.
func WithRecorder(r LoadRecorder) LoaderOption {
	return func(l *Loader) {
		l.recorder = r
	}
}

// NewLoader creates a loader for the CSV at path. Nothing is read until the
// first Load.
func NewLoader(path string, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		path:   path,
		logger: logger.With(slog.String("component", "dataset_loader")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the table, reading the file on the first call only.
func (l *Loader) Load(ctx context.Context) (*SalaryTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.once.Do(func() {
		l.table, l.err = l.read(ctx)
	})
	return l.table, l.err
}

// Reads reports how many times the file was actually read.
func (l *Loader) Reads() int {
	return int(l.reads.Load())
}

func (l *Loader) read(ctx context.Context) (*SalaryTable, error) {
	start := time.Now()
	l.reads.Add(1)

	table, err := l.parseFile()
	if l.recorder != nil {
		l.recorder.RecordDatasetLoad(ctx, err)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to load dataset",
			slog.String("path", l.path),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", l.path),
		slog.Int("rows", table.Rows()),
		slog.Int("columns", len(table.Columns())),
		slog.Any("sectors", table.Sectors()),
		slog.Duration("duration", time.Since(start)))

	if err := table.CheckVariants(); err != nil {
		l.logger.WarnContext(ctx, "Dataset variant columns incomplete",
			slog.String("error", err.Error()))
	}

	return table, nil
}

func (l *Loader) parseFile() (*SalaryTable, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, apierrors.NewDataUnavailableError("failed to open dataset", err).
			WithContext("path", l.path)
	}
	defer f.Close()

	return LoadFromReader(f)
}
