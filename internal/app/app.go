package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"salarypulse/internal/chart"
	"salarypulse/internal/config"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/exporter"
	"salarypulse/internal/files"
	"salarypulse/internal/infrastructure"
	customMiddleware "salarypulse/internal/middleware"
	"salarypulse/internal/report"
	"salarypulse/internal/services"
	handlers "salarypulse/internal/transport/http"
)

const AppName = "Salary Pulse"

var (
	// Version and BuildTime are set at link time.
	Version   = "dev"
	BuildTime = ""
)

// Options carries collaborators the caller already built. Nil fields are
// initialized from the config.
type Options struct {
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	// OpenBrowser opens the report page once the server answers.
	OpenBrowser bool
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ReportMetrics
	Definition    *report.Definition
	Loader        *dataset.Loader
	Renderer      *chart.Renderer
	Driver        *report.Driver
	Services      *ServiceContainer
	Router        *chi.Mux
	Server        *http.Server

	openBrowser bool
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report *services.ReportService
	Export *services.ExportService
	Health *services.HealthService
}

// New wires the application from cfg.
func New(cfg *config.Config, opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	providers := opts.Providers
	if providers == nil {
		providers, err = infrastructure.InitializeOTel(cfg.Telemetry, Version, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
		}
	}

	metrics, err := infrastructure.CreateReportMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	def := report.DefaultDefinition()
	if cfg.Report.DefinitionFile != "" {
		def, err = report.LoadDefinition(cfg.Report.DefinitionFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load report definition: %w", err)
		}
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Definition:    def,
		openBrowser:   opts.OpenBrowser,
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// ChartOptions converts the chart config into render options.
func ChartOptions(cfg config.ChartConfig) chart.Options {
	return chart.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: cfg.Format,
		DPI:    cfg.DPI,
	}
}

func (a *Application) initializeServices() {
	a.Loader = dataset.NewLoader(a.Paths.DataFile, a.Logger, dataset.WithRecorder(a.Metrics))
	a.Renderer = chart.NewRenderer(ChartOptions(a.Config.Chart), a.Config.Chart.Palette, a.Logger, a.Metrics)
	a.Driver = report.NewDriver(a.Loader, a.Renderer, report.DriverOptions{
		Nominal:  a.Config.Data.NominalColumns,
		Logger:   a.Logger,
		Recorder: a.Metrics,
		Tracer:   a.OTelProviders.Tracer,
	})

	reportService := services.NewReportService(a.Loader, a.Driver, a.Definition, a.Config.Data.NominalColumns, a.Logger)
	exportService := services.NewExportService(reportService, a.Paths,
		exporter.NewCSVWriter(a.Paths, a.Logger),
		exporter.NewWorkbookExporter(a.Paths, a.Logger),
		exporter.NewPDFExporter(a.Paths, a.Logger, 0),
		a.Logger)

	a.Services = &ServiceContainer{
		Report: reportService,
		Export: exportService,
		Health: services.NewHealthService(Version, BuildTime, a.Loader, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		reportHandler := handlers.NewReportHandler(a.Services.Report, a.Logger, errorHandler)
		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		filesHandler := handlers.NewFilesHandler(files.NewDiscovery(a.Paths.ReportsDir), a.Logger, errorHandler)

		r.Get("/", reportHandler.GetPage)
		r.Route("/api", func(r chi.Router) {
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/version", healthHandler.Version)
			r.Mount("/report", reportHandler.Routes())
			r.Mount("/files", filesHandler.Routes())
		})
	})

	// Outside the group so scrapes are not traced or rate limited.
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve runs the server until ctx is done, then shuts it down. The report
// is built in the background so the first page request is fast.
func (a *Application) Serve(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Starting server",
		slog.String("addr", a.Server.Addr),
		slog.String("data_file", a.Paths.DataFile))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	g.Go(func() error {
		if err := a.performStartupHealthCheck(gctx); err != nil {
			a.Logger.WarnContext(gctx, "Startup health check warnings", slog.String("warnings", err.Error()))
		}
		if _, err := a.Services.Report.Page(gctx); err != nil {
			// Served as a problem response on request; the server stays up.
			infrastructure.WithError(a.Logger, err).WarnContext(gctx, "Report warm-up failed")
		}
		if a.openBrowser {
			a.launchBrowser(gctx)
		}
		return nil
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// performStartupHealthCheck checks that the dataset exists and the reports
// directory is writable.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	if !config.FileExists(a.Paths.DataFile) {
		warnings = append(warnings, fmt.Sprintf("dataset not found: %s", a.Paths.DataFile))
	}

	testFile := filepath.Join(a.Paths.ReportsDir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		warnings = append(warnings, fmt.Sprintf("reports directory not writable: %s", a.Paths.ReportsDir))
	} else {
		os.Remove(testFile)
	}

	if len(warnings) > 0 {
		return errors.New(strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}

// launchBrowser waits for the health endpoint and opens the report page.
func (a *Application) launchBrowser(ctx context.Context) {
	url := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	client := &http.Client{Timeout: time.Second}

	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Millisecond):
		}

		resp, err := client.Get(url + "/api/health")
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}

		if err := openBrowser(url); err != nil {
			a.Logger.WarnContext(ctx, "Failed to open browser",
				slog.String("error", err.Error()),
				slog.String("url", url))
			return
		}
		a.Logger.InfoContext(ctx, "Browser opened", slog.String("url", url))
		return
	}

	a.Logger.WarnContext(ctx, "Server did not become ready for browser opening", slog.String("url", url))
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
