package report

import (
	"strconv"

	"github.com/couchcryptid/near-space-etl/internal/analysis"
)

// Analysis table columns.
const (
	ColMetric           = "metric"
	ColCorrelation      = "correlation"
	ColPValue           = "p_value"
	ColSignificant      = "significant"
	ColMonthName        = "month_name"
	ColStagnant         = "stagnant_conditions"
	ColMixingPotential  = "mixing_potential"
	ColVentilationIndex = "ventilation_index"
	ColDispersion       = "dispersion_potential"
	ColCategory         = "category"
	ColInsight          = "insight"
	ColImplication      = "implication"
	ColEvidence         = "evidence"
	ColValue            = "value"
)

// Correlations renders the correlation results. p-values keep four decimals.
func Correlations(corrs []analysis.Correlation) Table {
	t := Table{Name: CorrelationAnalysis, Columns: []string{ColMetric, ColCorrelation, ColPValue, ColSignificant}}
	for _, c := range corrs {
		sig := notSignificantLabel
		if c.Significant {
			sig = significantLabel
		}
		t.Rows = append(t.Rows, []string{
			c.Metric,
			analysis.FormatFloat(c.R, analysisPlaces),
			analysis.FormatFloat(c.PValue, pValuePlaces),
			sig,
		})
	}
	return t
}

func distribution(d analysis.Distribution, withRange bool) []string {
	cells := []string{rounded(d.Mean, analysisPlaces), rounded(d.Std, analysisPlaces)}
	if withRange {
		cells = append(cells, rounded(d.Min, analysisPlaces), rounded(d.Max, analysisPlaces))
	}
	return cells
}

func distributionColumns(name string, withRange bool) []string {
	cols := []string{name + "_mean", name + "_std"}
	if withRange {
		cols = append(cols, name+"_min", name+"_max")
	}
	return cols
}

// SeasonalComparison renders per-season statistics of the merged dataset.
func SeasonalComparison(seasons []analysis.SeasonalComparison) Table {
	t := Table{Name: SeasonalComparative, Columns: concat(ColSeason,
		distributionColumns(ColGradientMedian, true),
		distributionColumns(ColFineAOD, true),
		distributionColumns(ColCoarseAOD, true),
		distributionColumns(ColRH850Median, false),
		[]string{ColSoundings + "_sum"},
	)}
	for _, s := range seasons {
		t.Rows = append(t.Rows, concat(s.Season,
			distribution(s.Stability, true),
			distribution(s.FineAOD, true),
			distribution(s.CoarseAOD, true),
			distribution(s.Humidity, false),
			[]string{strconv.Itoa(s.Soundings)},
		))
	}
	return t
}

// Episodes renders the high-pollution months.
func Episodes(episodes []analysis.Episode) Table {
	t := Table{Name: HighPollution, Columns: []string{
		ColMonthName, ColGradientMedian, ColFineAOD, ColCoarseAOD, ColRH850Median, ColStagnant,
	}}
	for _, e := range episodes {
		t.Rows = append(t.Rows, []string{
			e.Month.Label(),
			rounded(e.Stability, analysisPlaces),
			rounded(e.FineAOD, analysisPlaces),
			rounded(e.CoarseAOD, analysisPlaces),
			rounded(e.RH850, analysisPlaces),
			boolean(e.Stagnant),
		})
	}
	return t
}

// Mixing renders the boundary-layer mixing indicators.
func Mixing(mixing []analysis.Mixing) Table {
	t := Table{Name: MixingMetrics, Columns: []string{
		ColMonth, ColGradientMedian, ColRH850Median, ColMixingPotential, ColVentilationIndex, ColDispersion,
	}}
	for _, m := range mixing {
		t.Rows = append(t.Rows, []string{
			m.Month.String(),
			rounded(m.Stability, analysisPlaces),
			rounded(m.RH850, analysisPlaces),
			rounded(m.MixingPotential, analysisPlaces),
			rounded(m.VentilationIndex, analysisPlaces),
			m.Dispersion,
		})
	}
	return t
}

// Sources renders the season × source-label cross-tabulation.
func Sources(ct analysis.CrossTab) Table {
	t := Table{Name: SourceAttribution, Columns: concat(ColSeason, ct.Labels)}
	for _, season := range ct.Seasons {
		cells := []string{season}
		for _, label := range ct.Labels {
			cells = append(cells, strconv.Itoa(ct.Count(season, label)))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// Insights renders the generated findings.
func Insights(insights []analysis.Insight) Table {
	t := Table{Name: ScientificInsights, Columns: []string{ColCategory, ColInsight, ColImplication, ColEvidence}}
	for _, i := range insights {
		t.Rows = append(t.Rows, []string{i.Category, i.Finding, i.Implication, i.Evidence})
	}
	return t
}

// Summary metric names.
const (
	SummaryPeriodStart   = "analysis_period_start"
	SummaryPeriodEnd     = "analysis_period_end"
	SummaryMonths        = "months_analyzed"
	SummaryMeanStability = "mean_theta_gradient_K"
	SummaryMeanFineAOD   = "mean_fine_mode_aod"
	SummaryMeanCoarseAOD = "mean_coarse_mode_aod"
	SummaryMeanRH850     = "mean_rh_850_pct"
	SummaryEpisodes      = "high_pollution_episodes"
	summaryDispersion    = "dispersion_"
)

// Summary renders the headline statistics as metric/value rows.
func Summary(s analysis.Summary) Table {
	t := Table{Name: SummaryStatistics, Columns: []string{ColMetric, ColValue}}
	add := func(metric, value string) {
		t.Rows = append(t.Rows, []string{metric, value})
	}

	var start, end string
	if s.Start != nil {
		start = s.Start.String()
	}
	if s.End != nil {
		end = s.End.String()
	}
	add(SummaryPeriodStart, start)
	add(SummaryPeriodEnd, end)
	add(SummaryMonths, strconv.Itoa(s.Months))
	add(SummaryMeanStability, rounded(s.MeanStability, analysisPlaces))
	add(SummaryMeanFineAOD, rounded(s.MeanFineAOD, analysisPlaces))
	add(SummaryMeanCoarseAOD, rounded(s.MeanCoarseAOD, analysisPlaces))
	add(SummaryMeanRH850, rounded(s.MeanRH850, analysisPlaces))
	add(SummaryEpisodes, strconv.Itoa(s.Episodes))
	for _, d := range s.Dispersion {
		add(summaryDispersion+d.Label, strconv.Itoa(d.Count))
	}
	return t
}

// AnalysisTables renders every analysis output, in write order.
func AnalysisTables(rep analysis.Report) []Table {
	return []Table{
		Correlations(rep.Correlations),
		SeasonalComparison(rep.Seasons),
		Episodes(rep.Episodes),
		Mixing(rep.Mixing),
		Sources(rep.SourceCrossTab),
		Insights(rep.Insights),
		Summary(rep.Summary),
	}
}
