// Package analysis computes correlations, seasonal statistics and threshold
// classifications over the merged monthly dataset.
package analysis

import "github.com/couchcryptid/near-space-etl/internal/domain"

// Report is the complete output of the analysis stage.
type Report struct {
	Correlations []Correlation
	// OmittedCorrelations lists pairs with too few rows or an undefined coefficient.
	OmittedCorrelations []string
	Seasons             []SeasonalComparison
	Episodes            []Episode
	Mixing              []Mixing
	Sources             []SourceAttribution
	SourceCrossTab      CrossTab
	Insights            []Insight
	Summary             Summary
}

// Analyze runs every analysis over rows, which must be ascending by month.
func Analyze(rows []domain.MergedMonth, t Thresholds) Report {
	corrs, omitted := Correlate(rows, DefaultPairs, t)
	episodes := DetectEpisodes(rows, t)
	mixing := MixingMetrics(rows, t)
	sources := AttributeSources(rows, t)

	return Report{
		Correlations:        corrs,
		OmittedCorrelations: omitted,
		Seasons:             CompareSeasons(rows),
		Episodes:            episodes,
		Mixing:              mixing,
		Sources:             sources,
		SourceCrossTab:      SourceCrossTab(sources),
		Insights:            GenerateInsights(rows, corrs, t),
		Summary:             Summarize(rows, mixing, episodes),
	}
}
