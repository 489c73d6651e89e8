package domain

import (
	"slices"
	"sort"
)

// MonthlyMetrics groups soundings by calendar month. Output is ascending by month.
func MonthlyMetrics(soundings []Sounding) []MonthlySoundingMetric {
	groups := make(map[Month][]Sounding)
	for _, s := range soundings {
		m := MonthOf(s.Time)
		groups[m] = append(groups[m], s)
	}

	months := make([]Month, 0, len(groups))
	for m := range groups {
		months = append(months, m)
	}
	slices.SortFunc(months, Month.Compare)

	out := make([]MonthlySoundingMetric, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlySoundingMetric{Month: m, SoundingStats: summarize(groups[m])})
	}
	return out
}

// SeasonalMetrics groups soundings by season-year label. Output is sorted
// lexicographically by label.
func SeasonalMetrics(soundings []Sounding) []SeasonalSoundingMetric {
	groups := make(map[string][]Sounding)
	for _, s := range soundings {
		label := SeasonLabel(s.Time)
		groups[label] = append(groups[label], s)
	}

	labels := make([]string, 0, len(groups))
	for l := range groups {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	out := make([]SeasonalSoundingMetric, 0, len(labels))
	for _, l := range labels {
		out = append(out, SeasonalSoundingMetric{Season: l, SoundingStats: summarize(groups[l])})
	}
	return out
}

func summarize(group []Sounding) SoundingStats {
	gradients := make([]float64, 0, len(group))
	rh := make([]*float64, 0, len(group))
	diffs := make([]*float64, 0, len(group))
	for _, s := range group {
		gradients = append(gradients, s.InversionGradient)
		rh = append(rh, s.RH850)
		diffs = append(diffs, s.HeightDiff)
	}
	return SoundingStats{
		GradientMedian:   Median(gradients),
		GradientIQR:      InterquartileRange(gradients),
		RH850Median:      Median(Present(rh...)),
		HeightDiffMedian: Median(Present(diffs...)),
		Soundings:        len(gradients),
	}
}
