// Command salarypulse renders the salary dynamics report and serves it over
// HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salarypulse/internal/app"
	"salarypulse/internal/chart"
	"salarypulse/internal/config"
	"salarypulse/internal/infrastructure"
	"salarypulse/internal/services"
)

type globalFlags struct {
	configPath string
	dataPath   string
	reportsDir string
}

func main() {
	err := newRootCmd().Execute()
	_ = infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "salarypulse",
		Short:        "Salary dynamics report by year and sector",
		Version:      app.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (default: config.yaml if present)")
	root.PersistentFlags().StringVar(&flags.dataPath, "data", "", "Salary dataset CSV (overrides data.csv_path)")
	root.PersistentFlags().StringVar(&flags.reportsDir, "reports-dir", "", "Directory for written reports (overrides report.output_dir)")

	root.AddCommand(
		newServeCmd(flags),
		newRenderCmd(flags),
		newExportCmd(flags),
		newDefinitionCmd(flags),
		newPalettesCmd(),
	)
	return root
}

func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.dataPath != "" {
		cfg.Data.CSVPath = f.dataPath
	}
	if f.reportsDir != "" {
		cfg.Report.OutputDir = f.reportsDir
	}
	return cfg, nil
}

// offline builds the application for one-shot commands: no server is
// started and telemetry is discarded.
func (f *globalFlags) offline() (*app.Application, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return app.New(cfg, app.Options{
		Logger:    logger,
		Providers: infrastructure.NoopProviders(logger),
	})
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		open bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			a, err := app.New(cfg, app.Options{OpenBrowser: open})
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the report in a browser once the server is up")
	return cmd
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build the report and write it as one HTML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return export(cmd, flags, services.ExportRequest{HTMLPath: output})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "salary_report.html", "HTML output path")
	return cmd
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var req services.ExportRequest
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report and its plotted tables in several formats",
		Example: `  salarypulse export --csv-dir tables --xlsx salary.xlsx
  salarypulse export --html salary.html --pdf salary.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Empty() {
				return fmt.Errorf("at least one of --html, --csv-dir, --xlsx, --pdf is required")
			}
			return export(cmd, flags, req)
		},
	}
	cmd.Flags().StringVar(&req.HTMLPath, "html", "", "HTML output path")
	cmd.Flags().StringVar(&req.CSVDir, "csv-dir", "", "Directory for one CSV per multi-series chart")
	cmd.Flags().StringVar(&req.XLSXPath, "xlsx", "", "Workbook output path, one sheet per multi-series chart")
	cmd.Flags().StringVar(&req.PDFPath, "pdf", "", "PDF output path (needs Chrome or Chromium)")
	return cmd
}

func export(cmd *cobra.Command, flags *globalFlags, req services.ExportRequest) error {
	a, err := flags.offline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	files, err := a.Services.Export.Export(ctx, req)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	infrastructure.LoggerWithContext(ctx).Info("Export finished", slog.Int("files", len(files)))
	return nil
}

func newDefinitionCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "definition",
		Short: "Print the active report definition as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.offline()
			if err != nil {
				return err
			}
			data, err := a.Definition.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newPalettesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "List the palette names accepted by multi-series charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range chart.Palettes() {
				marker := ""
				if name == chart.DefaultPalette {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
			}
			return nil
		},
	}
}

