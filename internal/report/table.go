// Package report renders pipeline and analysis records as fixed-column tables.
// Every output file of a run is one Table; adapters decide the file format.
package report

import (
	"strconv"

	"github.com/couchcryptid/near-space-etl/internal/analysis"
)

// Table is a named, fixed-column tabular output. Cells are pre-formatted;
// an empty cell is a missing value.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Output table names.
const (
	IGRAMonthly         = "igra_monthly_metrics"
	IGRASeasonal        = "igra_seasonal_metrics"
	AeronetMonthly      = "aeronet_monthly_metrics"
	MonthlyCombo        = "near_space_monthly_combo"
	CorrelationAnalysis = "correlation_analysis"
	SeasonalComparative = "seasonal_comparative_analysis"
	HighPollution       = "high_pollution_episodes"
	MixingMetrics       = "mixing_metrics"
	SourceAttribution   = "aerosol_source_attribution"
	ScientificInsights  = "scientific_insights"
	SummaryStatistics   = "summary_statistics"
)

const (
	analysisPlaces = 3
	pValuePlaces   = 4

	significantLabel    = "significant"
	notSignificantLabel = "not significant"
	trueLabel           = "True"
	falseLabel          = "False"
)

// Column returns the index of name, or -1.
func (t Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// full renders v at full precision in its shortest form.
func full(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// rounded renders v rounded to places decimals.
func rounded(v *float64, places int) string {
	if v == nil {
		return ""
	}
	return analysis.FormatFloat(*v, places)
}

func integer(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolean(v bool) string {
	if v {
		return trueLabel
	}
	return falseLabel
}
