package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salarypulse/internal/chart"
	"salarypulse/internal/dataset"
	"salarypulse/internal/infrastructure"
)

// TableSource supplies the loaded dataset.
type TableSource interface {
	Load(ctx context.Context) (*dataset.SalaryTable, error)
}

// ChartRenderer draws the charts of a report.
type ChartRenderer interface {
	Single(ctx context.Context, x, y []float64, caption *chart.Caption) (*chart.Image, error)
	Multi(ctx context.Context, table *dataset.DerivedTable, caption *chart.Caption, scheme string) (*chart.Image, error)
}

// BuildRecorder receives one call per finished build.
type BuildRecorder interface {
	RecordReportBuild(ctx context.Context, duration time.Duration, err error)
}

// BuildError locates the block a build stopped at. Indexes are zero based.
type BuildError struct {
	Section int
	Header  string
	Block   int
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("section %d (%q) block %d: %v", e.Section+1, e.Header, e.Block+1, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// DriverOptions configures a Driver. Zero values are usable.
type DriverOptions struct {
	// Nominal names the nominal columns for empty-pattern blocks. Empty
	// means the positional layout.
	Nominal  []string
	Logger   *slog.Logger
	Recorder BuildRecorder
	Tracer   trace.Tracer
}

// Driver turns a Definition into a Page.
type Driver struct {
	source   TableSource
	renderer ChartRenderer
	nominal  []string
	logger   *slog.Logger
	recorder BuildRecorder
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDriver creates a driver.
func NewDriver(source TableSource, renderer ChartRenderer, opts DriverOptions) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName)
	}
	return &Driver{
		source:   source,
		renderer: renderer,
		nominal:  append([]string(nil), opts.Nominal...),
		logger:   logger.With(slog.String("component", "report_driver")),
		recorder: opts.Recorder,
		tracer:   tracer,
		now:      time.Now,
	}
}

// Build loads the table and builds every section in order. The first
// failing block aborts the build; no partial page is returned.
func (d *Driver) Build(ctx context.Context, def *Definition) (page *Page, err error) {
	ctx, span := d.tracer.Start(ctx, "report.build",
		trace.WithAttributes(
			attribute.String("report.title", def.Title),
			attribute.Int("report.sections", len(def.Sections)),
			attribute.Int("report.charts", def.Charts()),
		))
	defer span.End()

	start := d.now()
	defer func() {
		if d.recorder != nil {
			d.recorder.RecordReportBuild(ctx, time.Since(start), err)
		}
		if err != nil {
			infrastructure.RecordError(ctx, err)
			d.logger.ErrorContext(ctx, "Report build failed",
				slog.String("title", def.Title),
				slog.String("error", err.Error()))
		}
	}()

	table, err := d.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	page = &Page{
		Title:       def.Title,
		Intro:       def.Intro,
		Sections:    make([]PageSection, 0, len(def.Sections)),
		GeneratedAt: start.UTC(),
	}

	for i, section := range def.Sections {
		built := PageSection{Header: section.Header, Elements: make([]Element, 0, len(section.Blocks))}
		for j, block := range section.Blocks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			elem, err := d.buildBlock(ctx, table, block)
			if err != nil {
				return nil, &BuildError{Section: i, Header: section.Header, Block: j, Err: err}
			}
			built.Elements = append(built.Elements, elem)
		}
		page.Sections = append(page.Sections, built)
	}

	d.logger.InfoContext(ctx, "Report built",
		slog.String("title", def.Title),
		slog.Int("sections", len(page.Sections)),
		slog.Int("charts", def.Charts()),
		slog.Duration("duration", time.Since(start)))

	return page, nil
}

func (d *Driver) buildBlock(ctx context.Context, table *dataset.SalaryTable, block Block) (Element, error) {
	elem := Element{Kind: block.Kind}

	if block.Kind == BlockMarkdown {
		elem.Text = block.Text
		return elem, nil
	}

	caption, err := chart.ParseCaption(block.Caption)
	if err != nil {
		return elem, err
	}
	elem.Caption = caption

	switch block.Kind {
	case BlockSingle:
		x, err := d.series(table, block.XColumn())
		if err != nil {
			return elem, err
		}
		y, err := d.series(table, block.Y)
		if err != nil {
			return elem, err
		}
		elem.Image, err = d.renderer.Single(ctx, x, y, caption)
		return elem, err

	case BlockMulti:
		derived, err := dataset.Reshape(table, block.Selection(d.nominal))
		if err != nil {
			return elem, err
		}
		if block.Limit > 0 {
			derived = derived.Head(block.Limit)
		}
		elem.Table = derived
		elem.Image, err = d.renderer.Multi(ctx, derived, caption, block.Palette)
		return elem, err
	}

	return elem, fmt.Errorf("unknown block kind %q", block.Kind)
}

// series returns a column of table as float64; year is accepted as a column.
func (d *Driver) series(table *dataset.SalaryTable, name string) ([]float64, error) {
	if name == dataset.YearColumn {
		years := table.Years()
		out := make([]float64, len(years))
		for i, y := range years {
			out[i] = float64(y)
		}
		return out, nil
	}
	return table.Column(name)
}
