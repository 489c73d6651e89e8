package analysis

import (
	"sort"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// SourceAttribution is the likely aerosol source of one month.
type SourceAttribution struct {
	Month            domain.Month `json:"month"`
	Season           string       `json:"season"`
	FineModeFraction *float64     `json:"fine_mode_fraction"`
	Label            string       `json:"likely_source"`
}

// AttributeSources labels every row by its fine-mode fraction.
func AttributeSources(rows []domain.MergedMonth, t Thresholds) []SourceAttribution {
	out := make([]SourceAttribution, 0, len(rows))
	for _, row := range rows {
		frac := row.FineModeFraction
		if !present(frac) {
			frac = nil
		}
		out = append(out, SourceAttribution{
			Month:            row.Month,
			Season:           domain.MeteorologicalSeason(row.Month.Month),
			FineModeFraction: frac,
			Label:            SourceLabel(t, frac),
		})
	}
	return out
}

// CrossTab counts attributions by season and label. Only seasons and labels
// that occur are listed, each sorted.
type CrossTab struct {
	Seasons []string
	Labels  []string
	counts  map[string]map[string]int
}

// Count returns the number of months in season with label.
func (c CrossTab) Count(season, label string) int {
	return c.counts[season][label]
}

// SourceCrossTab tabulates attributions.
func SourceCrossTab(attrs []SourceAttribution) CrossTab {
	ct := CrossTab{counts: make(map[string]map[string]int)}
	labels := make(map[string]bool)
	for _, a := range attrs {
		if ct.counts[a.Season] == nil {
			ct.counts[a.Season] = make(map[string]int)
			ct.Seasons = append(ct.Seasons, a.Season)
		}
		ct.counts[a.Season][a.Label]++
		if !labels[a.Label] {
			labels[a.Label] = true
			ct.Labels = append(ct.Labels, a.Label)
		}
	}
	sort.Strings(ct.Seasons)
	sort.Strings(ct.Labels)
	return ct
}
