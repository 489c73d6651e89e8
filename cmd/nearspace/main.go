// Command nearspace runs the radiosonde stability and aerosol batch pipeline.
//
// Usage:
//
//	nearspace [run|process|analyze] [--igra file] [--aod file] [--sda file] [--output-dir dir]
//
// Settings not given as flags come from the environment (see internal/config).
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/near-space-etl/internal/adapter/archive"
	"github.com/couchcryptid/near-space-etl/internal/adapter/chart"
	"github.com/couchcryptid/near-space-etl/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/near-space-etl/internal/adapter/kafka"
	"github.com/couchcryptid/near-space-etl/internal/adapter/parquet"
	"github.com/couchcryptid/near-space-etl/internal/config"
	"github.com/couchcryptid/near-space-etl/internal/domain"
	"github.com/couchcryptid/near-space-etl/internal/observability"
	"github.com/couchcryptid/near-space-etl/internal/pipeline"
	"github.com/couchcryptid/near-space-etl/internal/report"
)

type mode int

const (
	modeRun mode = iota
	modeProcess
	modeAnalyze
)

// flags override the environment configuration.
type flags struct {
	igra      string
	aod       string
	sda       string
	outputDir string
	combo     string
}

func (f flags) apply(cfg *config.Config) {
	if f.igra != "" {
		cfg.IGRAFile = f.igra
	}
	if f.aod != "" {
		cfg.AODFile = f.aod
	}
	if f.sda != "" {
		cfg.SDAFile = f.sda
	}
	if f.outputDir != "" {
		cfg.OutputDir = f.outputDir
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "nearspace",
		Short: "Lower-troposphere stability and aerosol loading analysis.",
		Long: `nearspace parses IGRA v2 radiosonde soundings and AERONET monthly aerosol
products, merges them by month, and writes monthly, seasonal and statistical
analysis tables. Without a subcommand it runs process followed by analyze.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), f, modeRun)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.igra, "igra", "", "IGRA v2 sounding file, optionally .gz/.zst/.zip (overrides IGRA_FILE)")
	pf.StringVar(&f.aod, "aod", "", "AERONET monthly AOD file (overrides AOD_FILE)")
	pf.StringVar(&f.sda, "sda", "", "AERONET monthly SDA file (overrides SDA_FILE)")
	pf.StringVar(&f.outputDir, "output-dir", "", "output directory (overrides OUTPUT_DIR)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process the inputs and analyze the merged dataset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), f, modeRun)
		},
	}
	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Parse, aggregate and merge the inputs; write the processing tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), f, modeProcess)
		},
	}
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an existing merged combo table.",
		Long: `analyze reads near_space_monthly_combo.csv (or the file given by --combo)
and writes the correlation, seasonal, episode, mixing, source attribution,
insight and summary tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), f, modeAnalyze)
		},
	}
	analyzeCmd.Flags().StringVar(&f.combo, "combo", "", "merged combo CSV (default <output-dir>/near_space_monthly_combo.csv)")

	root.AddCommand(runCmd, processCmd, analyzeCmd)
	return root
}

func execute(ctx context.Context, f flags, m mode) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	p := pipeline.New(
		archive.NewFileSource(cfg),
		csvfile.NewWriter(cfg.OutputDir, logger),
		logger,
		metrics,
		pipelineOptions(cfg),
	)
	closers := addSinks(p, cfg, logger)

	var runErr error
	switch m {
	case modeProcess:
		runErr = p.RunProcess(ctx)
	case modeAnalyze:
		combo := f.combo
		if combo == "" {
			combo = filepath.Join(cfg.OutputDir, report.MonthlyCombo+csvfile.Ext)
		}
		var merged []domain.MergedMonth
		merged, runErr = csvfile.ReadMerged(combo)
		if runErr == nil {
			runErr = p.RunAnalysis(ctx, merged)
		}
	default:
		runErr = p.Run(ctx)
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}
	if err := metrics.Push(ctx, cfg.PushgatewayURL); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		return runErr
	}
	logger.Info("run complete", "output_dir", cfg.OutputDir)
	return nil
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.MergeFloor = cfg.MergeFloor
	opts.SoundingSentinels = cfg.SoundingSentinels
	opts.Aerosol = domain.AerosolReadOptions{SkipLines: cfg.AeronetSkipLines, Sentinels: cfg.AerosolSentinels}
	opts.Thresholds = cfg.Thresholds
	return opts
}

// addSinks registers the optional merged-month exporters enabled in cfg.
func addSinks(p *pipeline.Pipeline, cfg *config.Config, logger *slog.Logger) []io.Closer {
	var closers []io.Closer
	if cfg.ParquetEnabled {
		p.AddSink(parquet.NewWriter(cfg.OutputDir, logger))
	}
	if cfg.ChartEnabled {
		p.AddSink(chart.NewWriter(cfg.OutputDir, logger))
	}
	if cfg.KafkaEnabled() {
		w := kafkaadapter.NewWriter(cfg, logger)
		p.AddSink(w)
		closers = append(closers, w)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	return closers
}
