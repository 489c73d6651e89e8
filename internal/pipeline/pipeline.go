package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/near-space-etl/internal/analysis"
	"github.com/couchcryptid/near-space-etl/internal/domain"
	"github.com/couchcryptid/near-space-etl/internal/observability"
	"github.com/couchcryptid/near-space-etl/internal/report"
)

// Source opens the three input datasets.
type Source interface {
	OpenSoundings(ctx context.Context) (io.ReadCloser, error)
	OpenOpticalDepth(ctx context.Context) (io.ReadCloser, error)
	OpenSpectralDeconvolution(ctx context.Context) (io.ReadCloser, error)
}

// TableLoader writes rendered output tables to the destination.
type TableLoader interface {
	LoadTables(ctx context.Context, tables []report.Table) error
}

// MergedLoader receives the merged monthly dataset, e.g. a columnar export
// or a message topic. Name labels the sink in metrics and logs.
type MergedLoader interface {
	Name() string
	LoadMerged(ctx context.Context, months []domain.MergedMonth) error
}

// Options are the processing settings of a run.
type Options struct {
	MergeFloor        domain.Month
	SoundingSentinels []string
	Aerosol           domain.AerosolReadOptions
	Thresholds        analysis.Thresholds
	Clock             clockwork.Clock
}

// DefaultOptions returns the standard settings with a real clock.
func DefaultOptions() Options {
	return Options{
		MergeFloor:        domain.DefaultMergeFloor,
		SoundingSentinels: domain.DefaultSoundingSentinels,
		Aerosol:           domain.DefaultAerosolReadOptions(),
		Thresholds:        analysis.DefaultThresholds(),
		Clock:             clockwork.NewRealClock(),
	}
}

// Stage names used for timing.
const (
	StageSoundings = "soundings"
	StageAerosol   = "aerosol"
	StageMerge     = "merge"
	StageAnalyze   = "analyze"
	StageLoad      = "load"
)

// Pipeline orchestrates the extract-transform-load batch run.
type Pipeline struct {
	source  Source
	tables  TableLoader
	sinks   []MergedLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
}

// New creates a Pipeline with the given stages and observability.
func New(src Source, tables TableLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:  src,
		tables:  tables,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// AddSink registers an optional consumer of the merged dataset.
func (p *Pipeline) AddSink(l MergedLoader) {
	p.sinks = append(p.sinks, l)
}

// Processed is the output of the processing stages.
type Processed struct {
	Monthly  []domain.MonthlySoundingMetric
	Seasonal []domain.SeasonalSoundingMetric
	Aerosol  []domain.AerosolMonth
	Merged   []domain.MergedMonth
	Stats    domain.ParseStats
}

// Tables renders the processing outputs, in write order.
func (r Processed) Tables() []report.Table {
	return []report.Table{
		report.MonthlySoundings(r.Monthly),
		report.SeasonalSoundings(r.Seasonal),
		report.AerosolMonthly(r.Aerosol),
		report.MergedCombo(r.Merged),
	}
}

// Process parses the soundings and aerosol files and merges them. Any
// unreadable input is fatal.
func (p *Pipeline) Process(ctx context.Context) (Processed, error) {
	var out Processed

	var soundings []domain.Sounding
	err := p.timed(StageSoundings, func() error {
		var err error
		soundings, out.Stats, err = p.readSoundings(ctx)
		return err
	})
	if err != nil {
		return out, err
	}
	out.Monthly = domain.MonthlyMetrics(soundings)
	out.Seasonal = domain.SeasonalMetrics(soundings)

	err = p.timed(StageAerosol, func() error {
		var err error
		out.Aerosol, err = p.readAerosol(ctx)
		return err
	})
	if err != nil {
		return out, err
	}

	_ = p.timed(StageMerge, func() error {
		out.Merged = domain.MergeMonthly(out.Monthly, out.Aerosol, p.opts.MergeFloor)
		return nil
	})
	p.metrics.MergedMonths.Set(float64(len(out.Merged)))
	p.logger.Info("datasets merged",
		"sounding_months", len(out.Monthly),
		"aerosol_months", len(out.Aerosol),
		"merged_months", len(out.Merged),
		"floor", p.opts.MergeFloor.String(),
	)
	return out, ctx.Err()
}

// Analyze runs the statistics and classification stage.
func (p *Pipeline) Analyze(merged []domain.MergedMonth) analysis.Report {
	var rep analysis.Report
	_ = p.timed(StageAnalyze, func() error {
		rep = analysis.Analyze(merged, p.opts.Thresholds)
		return nil
	})

	p.metrics.CorrelationsOmitted.Add(float64(len(rep.OmittedCorrelations)))
	p.metrics.Episodes.Set(float64(len(rep.Episodes)))
	if len(rep.OmittedCorrelations) > 0 {
		p.logger.Warn("correlations omitted for too few paired months",
			"metrics", rep.OmittedCorrelations, "min_pairs", p.opts.Thresholds.MinPairs)
	}
	p.logger.Info("analysis complete",
		"months", len(merged),
		"correlations", len(rep.Correlations),
		"episodes", len(rep.Episodes),
		"insights", len(rep.Insights),
	)
	return rep
}

// Run processes and analyzes the inputs, then writes every output. Nothing
// is written if any stage before loading fails.
func (p *Pipeline) Run(ctx context.Context) error {
	processed, err := p.Process(ctx)
	if err != nil {
		return p.fail(err)
	}
	rep := p.Analyze(processed.Merged)

	tables := append(processed.Tables(), report.AnalysisTables(rep)...)
	if err := p.load(ctx, tables, processed.Merged); err != nil {
		return p.fail(err)
	}
	p.metrics.LastRunSuccess.Set(1)
	return nil
}

// RunProcess writes only the processing outputs.
func (p *Pipeline) RunProcess(ctx context.Context) error {
	processed, err := p.Process(ctx)
	if err != nil {
		return p.fail(err)
	}
	if err := p.load(ctx, processed.Tables(), processed.Merged); err != nil {
		return p.fail(err)
	}
	p.metrics.LastRunSuccess.Set(1)
	return nil
}

// RunAnalysis analyzes an existing merged dataset and writes the analysis outputs.
func (p *Pipeline) RunAnalysis(ctx context.Context, merged []domain.MergedMonth) error {
	if err := ctx.Err(); err != nil {
		return p.fail(err)
	}
	rep := p.Analyze(merged)
	if err := p.load(ctx, report.AnalysisTables(rep), nil); err != nil {
		return p.fail(err)
	}
	p.metrics.LastRunSuccess.Set(1)
	return nil
}

func (p *Pipeline) readSoundings(ctx context.Context) ([]domain.Sounding, domain.ParseStats, error) {
	rc, err := p.source.OpenSoundings(ctx)
	if err != nil {
		return nil, domain.ParseStats{}, fmt.Errorf("open sounding file: %w", err)
	}
	defer rc.Close()

	soundings, stats, err := domain.ParseSoundings(rc, p.opts.SoundingSentinels...)
	if err != nil {
		return nil, stats, fmt.Errorf("parse sounding file: %w", err)
	}

	p.metrics.LinesRead.Add(float64(stats.Lines))
	p.metrics.SoundingsParsed.Add(float64(stats.Soundings))
	p.metrics.MalformedHeaders.Add(float64(stats.MalformedHeaders))
	p.metrics.TruncatedBlocks.Add(float64(stats.TruncatedBlocks))
	p.metrics.DroppedLevels.Add(float64(stats.DroppedLevels))
	p.metrics.RejectedSoundings.Add(float64(stats.RejectedSoundings))

	if stats.MalformedHeaders > 0 || stats.TruncatedBlocks > 0 {
		p.logger.Warn("sounding file has data-quality issues",
			"malformed_headers", stats.MalformedHeaders,
			"truncated_blocks", stats.TruncatedBlocks,
			"orphan_lines", stats.OrphanLines,
		)
	}
	p.logger.Info("soundings parsed",
		"lines", stats.Lines,
		"headers", stats.Headers,
		"soundings", stats.Soundings,
		"rejected", stats.RejectedSoundings,
		"dropped_levels", stats.DroppedLevels,
	)
	return soundings, stats, ctx.Err()
}

func (p *Pipeline) readAerosol(ctx context.Context) ([]domain.AerosolMonth, error) {
	aodFile, err := p.source.OpenOpticalDepth(ctx)
	if err != nil {
		return nil, fmt.Errorf("open optical depth file: %w", err)
	}
	defer aodFile.Close()
	aod, aodStats, err := domain.ReadOpticalDepth(aodFile, p.opts.Aerosol)
	if err != nil {
		return nil, err
	}
	p.recordAerosol("aod", aodStats)

	sdaFile, err := p.source.OpenSpectralDeconvolution(ctx)
	if err != nil {
		return nil, fmt.Errorf("open spectral deconvolution file: %w", err)
	}
	defer sdaFile.Close()
	sda, sdaStats, err := domain.ReadSpectralDeconvolution(sdaFile, p.opts.Aerosol)
	if err != nil {
		return nil, err
	}
	p.recordAerosol("sda", sdaStats)

	return domain.MergeAerosol(aod, sda), ctx.Err()
}

func (p *Pipeline) recordAerosol(product string, stats domain.AerosolStats) {
	p.metrics.AerosolRowsKept.WithLabelValues(product).Add(float64(stats.Kept))
	p.metrics.AerosolRowsDropped.WithLabelValues(product, "non_month").Add(float64(stats.DroppedNonMonth))
	p.metrics.AerosolRowsDropped.WithLabelValues(product, "duplicate").Add(float64(stats.DroppedDuplicate))
	p.logger.Info("aerosol product read",
		"product", product,
		"rows", stats.Rows,
		"kept", stats.Kept,
		"dropped_non_month", stats.DroppedNonMonth,
		"dropped_duplicate", stats.DroppedDuplicate,
	)
}

func (p *Pipeline) load(ctx context.Context, tables []report.Table, merged []domain.MergedMonth) error {
	return p.timed(StageLoad, func() error {
		if err := p.tables.LoadTables(ctx, tables); err != nil {
			return fmt.Errorf("load tables: %w", err)
		}
		for _, t := range tables {
			p.metrics.RowsWritten.WithLabelValues(t.Name).Add(float64(len(t.Rows)))
		}
		p.metrics.TablesWritten.WithLabelValues("csv").Add(float64(len(tables)))

		if merged == nil {
			return nil
		}
		for _, sink := range p.sinks {
			if err := sink.LoadMerged(ctx, merged); err != nil {
				return fmt.Errorf("load merged months into %s: %w", sink.Name(), err)
			}
			p.metrics.TablesWritten.WithLabelValues(sink.Name()).Inc()
			p.logger.Info("merged months exported", "sink", sink.Name(), "months", len(merged))
		}
		return nil
	})
}

// timed runs fn and records its duration under stage.
func (p *Pipeline) timed(stage string, fn func() error) error {
	start := p.opts.Clock.Now()
	err := fn()
	elapsed := p.opts.Clock.Since(start)
	p.metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	p.logger.Debug("stage finished", "stage", stage, "duration", elapsed, "ok", err == nil)
	return err
}

func (p *Pipeline) fail(err error) error {
	p.metrics.LastRunSuccess.Set(0)
	p.logger.Error("pipeline failed", "error", err)
	return err
}
