package chart

import (
	"context"
	"log/slog"

	"salarypulse/internal/dataset"
)

// ChartRecorder receives one call per rendered chart.
type ChartRecorder interface {
	RecordChart(ctx context.Context, kind string)
}

// Renderer binds canvas options and a default palette to the render
// functions.
type Renderer struct {
	opts     Options
	palette  string
	logger   *slog.Logger
	recorder ChartRecorder
}

// NewRenderer creates a renderer. An empty palette selects DefaultPalette.
func NewRenderer(opts Options, palette string, logger *slog.Logger, recorder ChartRecorder) *Renderer {
	if palette == "" {
		palette = DefaultPalette
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		opts:     opts.withDefaults(),
		palette:  palette,
		logger:   logger.With(slog.String("component", "chart_renderer")),
		recorder: recorder,
	}
}

// Options returns the canvas options in effect.
func (r *Renderer) Options() Options {
	return r.opts
}

// Single renders one series.
func (r *Renderer) Single(ctx context.Context, x, y []float64, caption *Caption) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := RenderSingleSeries(x, y, caption, r.opts)
	r.done(ctx, KindSingle, len(x), err)
	return img, err
}

// Multi renders every column of table. An empty scheme uses the renderer's
// palette.
func (r *Renderer) Multi(ctx context.Context, table *dataset.DerivedTable, caption *Caption, scheme string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scheme == "" {
		scheme = r.palette
	}
	img, err := RenderMultiSeries(table, caption, scheme, r.opts)
	n := 0
	if table != nil {
		n = len(table.Columns())
	}
	r.done(ctx, KindMulti, n, err)
	return img, err
}

func (r *Renderer) done(ctx context.Context, kind string, size int, err error) {
	if err != nil {
		r.logger.WarnContext(ctx, "chart render failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()))
		return
	}
	r.logger.DebugContext(ctx, "chart rendered",
		slog.String("kind", kind),
		slog.Int("size", size),
		slog.String("format", r.opts.Format))
	if r.recorder != nil {
		r.recorder.RecordChart(ctx, kind)
	}
}
