package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nearspace_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a batch run.
// They are registered on a private registry so a run can be pushed as a unit.
type Metrics struct {
	Registry *prometheus.Registry

	// Sounding parse metrics.
	LinesRead         prometheus.Counter
	SoundingsParsed   prometheus.Counter
	MalformedHeaders  prometheus.Counter
	TruncatedBlocks   prometheus.Counter
	DroppedLevels     prometheus.Counter
	RejectedSoundings prometheus.Counter

	// Aerosol and merge metrics.
	AerosolRowsKept    *prometheus.CounterVec // labels: product={aod,sda}
	AerosolRowsDropped *prometheus.CounterVec // labels: product={aod,sda}, reason={non_month,duplicate}
	MergedMonths       prometheus.Gauge

	// Analysis metrics.
	CorrelationsOmitted prometheus.Counter
	Episodes            prometheus.Gauge

	// Output metrics.
	TablesWritten  *prometheus.CounterVec   // labels: sink
	RowsWritten    *prometheus.CounterVec   // labels: table
	StageDuration  *prometheus.HistogramVec // labels: stage
	LastRunSuccess prometheus.Gauge
}

// NewMetrics creates all pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sounding_lines_read_total",
			Help:      "Total lines read from the sounding file.",
		}),
		SoundingsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "soundings_parsed_total",
			Help:      "Soundings with both 925 and 700 hPa temperatures.",
		}),
		MalformedHeaders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_headers_total",
			Help:      "Sounding headers skipped for a missing or invalid date.",
		}),
		TruncatedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truncated_blocks_total",
			Help:      "Level blocks cut short by end of input.",
		}),
		DroppedLevels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_levels_total",
			Help:      "Level lines without a level type or pressure.",
		}),
		RejectedSoundings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_soundings_total",
			Help:      "Soundings missing the 925 or 700 hPa temperature.",
		}),
		AerosolRowsKept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aerosol_rows_kept_total",
			Help:      "Aerosol rows kept by product.",
		}, []string{"product"}),
		AerosolRowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aerosol_rows_dropped_total",
			Help:      "Aerosol rows dropped by product and reason.",
		}, []string{"product", "reason"}),
		MergedMonths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "merged_months",
			Help:      "Months present in all three sources on or after the floor.",
		}),
		CorrelationsOmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlations_omitted_total",
			Help:      "Correlation pairs omitted for too few rows.",
		}),
		Episodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "high_pollution_episodes",
			Help:      "Months flagged as high-pollution episodes.",
		}),
		TablesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_written_total",
			Help:      "Output tables written by sink.",
		}, []string{"sink"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written by table.",
		}, []string{"table"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 when the last run completed, 0 when it failed.",
		}),
	}

	m.Registry.MustRegister(
		m.LinesRead,
		m.SoundingsParsed,
		m.MalformedHeaders,
		m.TruncatedBlocks,
		m.DroppedLevels,
		m.RejectedSoundings,
		m.AerosolRowsKept,
		m.AerosolRowsDropped,
		m.MergedMonths,
		m.CorrelationsOmitted,
		m.Episodes,
		m.TablesWritten,
		m.RowsWritten,
		m.StageDuration,
		m.LastRunSuccess,
	)

	return m
}
