package domain

import "slices"

// DefaultMergeFloor is the earliest month kept in the merged dataset.
var DefaultMergeFloor = Month{Year: 2010, Month: 1}

// MergeAerosol inner-joins the AOD and SDA products on month. Months missing
// from either side are dropped. Output is ascending by month.
func MergeAerosol(aod []OpticalDepthMonth, sda []SpectralMonth) []AerosolMonth {
	byMonth := make(map[Month]SpectralDeconvolution, len(sda))
	for _, s := range sda {
		if _, dup := byMonth[s.Month]; !dup {
			byMonth[s.Month] = s.SpectralDeconvolution
		}
	}

	out := make([]AerosolMonth, 0, min(len(aod), len(sda)))
	seen := make(map[Month]bool, len(aod))
	for _, a := range aod {
		s, ok := byMonth[a.Month]
		if !ok || seen[a.Month] {
			continue
		}
		seen[a.Month] = true
		out = append(out, AerosolMonth{Month: a.Month, OpticalDepth: a.OpticalDepth, SpectralDeconvolution: s})
	}
	slices.SortFunc(out, func(x, y AerosolMonth) int { return x.Month.Compare(y.Month) })
	return out
}

// MergeMonthly inner-joins sounding metrics with aerosol metrics on month and
// drops months before floor. There is no fill or interpolation; output is
// ascending by month.
func MergeMonthly(soundings []MonthlySoundingMetric, aerosol []AerosolMonth, floor Month) []MergedMonth {
	byMonth := make(map[Month]AerosolMonth, len(aerosol))
	for _, a := range aerosol {
		if _, dup := byMonth[a.Month]; !dup {
			byMonth[a.Month] = a
		}
	}

	out := make([]MergedMonth, 0, min(len(soundings), len(aerosol)))
	seen := make(map[Month]bool, len(soundings))
	for _, s := range soundings {
		if s.Month.Before(floor) || s.GradientMedian == nil || seen[s.Month] {
			continue
		}
		a, ok := byMonth[s.Month]
		if !ok {
			continue
		}
		seen[s.Month] = true
		out = append(out, MergedMonth{
			Month:                 s.Month,
			SoundingStats:         s.SoundingStats,
			OpticalDepth:          a.OpticalDepth,
			SpectralDeconvolution: a.SpectralDeconvolution,
		})
	}
	slices.SortFunc(out, func(x, y MergedMonth) int { return x.Month.Compare(y.Month) })
	return out
}
