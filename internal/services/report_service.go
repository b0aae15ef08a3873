package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"salarypulse/internal/chart"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/report"
)

// ReportService builds the report page on first use and serves it, its
// charts and ad-hoc table views afterwards.
type ReportService struct {
	loader  *dataset.Loader
	driver  *report.Driver
	def     *report.Definition
	nominal []string
	logger  *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	gen   uint64
	built *builtPage
}

// builtPage is a page and its rendered document, cached together.
type builtPage struct {
	page *report.Page
	html []byte
}

// NewReportService creates a report service. nominal is the configured
// nominal column list used by table queries with an empty pattern.
func NewReportService(loader *dataset.Loader, driver *report.Driver, def *report.Definition, nominal []string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		loader:  loader,
		driver:  driver,
		def:     def,
		nominal: append([]string(nil), nominal...),
		logger:  logger.With(slog.String("component", "report_service")),
	}
}

// Definition returns the report definition being served.
func (s *ReportService) Definition() *report.Definition {
	return s.def
}

// Page returns the built page. Concurrent first calls share one build; a
// failed build is not cached so the next request retries.
func (s *ReportService) Page(ctx context.Context) (*report.Page, error) {
	b, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return b.page, nil
}

// HTML returns the rendered page document.
func (s *ReportService) HTML(ctx context.Context) ([]byte, error) {
	b, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return b.html, nil
}

// snapshot returns the cached build or joins the build for the current
// generation. The build ignores caller cancellation; a cancelled caller
// only stops waiting.
func (s *ReportService) snapshot(ctx context.Context) (*builtPage, error) {
	s.mu.RLock()
	b, gen := s.built, s.gen
	s.mu.RUnlock()
	if b != nil {
		return b, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(fmt.Sprintf("page-%d", gen), func() (interface{}, error) {
		return s.build(buildCtx, gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "Shared in-flight page build")
		}
		return res.Val.(*builtPage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// build renders the page and stores it unless Invalidate ran meanwhile.
func (s *ReportService) build(ctx context.Context, gen uint64) (*builtPage, error) {
	page, err := s.driver.Build(ctx, s.def)
	if err != nil {
		return nil, err
	}
	html, err := report.RenderHTML(page)
	if err != nil {
		return nil, err
	}
	b := &builtPage{page: page, html: html}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.built = b
	} else {
		s.logger.DebugContext(ctx, "Discarding page built before invalidation",
			slog.Uint64("generation", gen))
	}
	return b, nil
}

// Chart returns the chart image at section/block, both zero based.
func (s *ReportService) Chart(ctx context.Context, section, block int) (*chart.Image, error) {
	page, err := s.Page(ctx)
	if err != nil {
		return nil, err
	}
	img := page.Chart(section, block)
	if img == nil {
		return nil, apierrors.NotFoundError(fmt.Sprintf("chart %d/%d", section+1, block+1))
	}
	return img, nil
}

// TableQuery is an ad-hoc reshape request.
type TableQuery struct {
	Pattern     *string
	KeepOverall bool
	Limit       int
}

// Table reshapes the dataset for q. Limit > 0 keeps the first Limit
// columns.
func (s *ReportService) Table(ctx context.Context, q TableQuery) (*dataset.DerivedTable, error) {
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	derived, err := dataset.Reshape(table, dataset.Selection{
		Pattern:     q.Pattern,
		KeepOverall: q.KeepOverall,
		Nominal:     s.nominal,
	})
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 {
		derived = derived.Head(q.Limit)
	}
	return derived, nil
}

// Invalidate drops the cached page so the next request rebuilds it. A build
// already running is not cached.
func (s *ReportService) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.built = nil
	s.mu.Unlock()
}
