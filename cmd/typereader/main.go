// Command typereader summarises SNID template-match listings by supernova
// category.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ahrav/typereader/infrastructure/middleware"
	"github.com/ahrav/typereader/infrastructure/snidfile"
	"github.com/ahrav/typereader/infrastructure/stats"
	"github.com/ahrav/typereader/internal/application"
	"github.com/ahrav/typereader/internal/ports"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	verbose     bool
	metricsFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "typereader",
		Short:         "Summarise SNID template matches by supernova type",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (.yaml, .yml or .toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newAggregateCmd(opts))
	root.AddCommand(newTaxonomyCmd(opts))
	return root
}

// app is the per-invocation wiring of configuration, service and metrics.
type app struct {
	service  *application.Service
	registry *prometheus.Registry
	logger   *slog.Logger
	opts     *globalOptions
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loader, err := application.NewConfigLoader(nil)
	if err != nil {
		return nil, err
	}
	var engine *application.Engine
	if opts.configPath != "" {
		engine, err = loader.LoadFromFile(cmd.Context(), opts.configPath)
	} else {
		engine, err = loader.Default(cmd.Context())
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		slog.String("path", opts.configPath),
		slog.Any("categories", engine.Taxonomy.Categories()))

	registry := prometheus.NewRegistry()
	service, err := application.NewService(engine, snidfile.NewSource(),
		application.WithMetrics(middleware.NewPrometheusMetrics(registry)),
		application.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return &app{service: service, registry: registry, logger: logger, opts: opts}, nil
}

// flush writes collected metrics when --metrics-file is set. It runs even
// when the command failed so error counters are kept.
func (a *app) flush() error {
	if a.opts.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.opts.metricsFile, a.registry); err != nil {
		return ports.NewMetricsError(a.opts.metricsFile, "WriteToTextfile", err)
	}
	a.logger.Debug("metrics written", slog.String("path", a.opts.metricsFile))
	return nil
}

// run builds the app, calls fn and flushes metrics.
func run(cmd *cobra.Command, opts *globalOptions, fn func(*app) error) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.flush(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// summaryOptions starts from the configured defaults and applies only the
// flags the user set.
func summaryOptions(cmd *cobra.Command, a *app, key, statistic, subtypeOf string, window int) application.SummaryOptions {
	opts := a.service.DefaultOptions()
	flags := cmd.Flags()
	if flags.Changed("key") {
		opts.Key = key
	}
	if flags.Changed("window") {
		opts.Window = window
	}
	if flags.Changed("statistic") {
		opts.Statistic = statistic
	}
	if flags.Changed("subtype-of") {
		opts.SubtypeOf = subtypeOf
	}
	return opts
}

// statisticUsage is the --statistic help text listing every supported name.
func statisticUsage() string {
	return "reduction per category, one of: " + strings.Join(stats.Default().Names(), ", ") + " (default from config)"
}

// writeFile writes a fully rendered document to path.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprint(w, "error: ")
	_, _ = fmt.Fprintln(w, err)
}
