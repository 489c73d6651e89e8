package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Distribution summarizes one variable over a group. Std is the sample
// standard deviation and is absent below two values.
type Distribution struct {
	Mean *float64 `json:"mean"`
	Std  *float64 `json:"std"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// Describe computes the distribution of the present values.
func Describe(values ...*float64) Distribution {
	xs := domain.Present(values...)
	if len(xs) == 0 {
		return Distribution{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	d := Distribution{
		Mean: &mean,
		Min:  ptr(floats.Min(xs)),
		Max:  ptr(floats.Max(xs)),
	}
	if len(xs) > 1 {
		d.Std = &std
	}
	return d
}

// SeasonalComparison holds the statistics of one meteorological season
// across all years.
type SeasonalComparison struct {
	Season    string       `json:"season"`
	Stability Distribution `json:"theta_gradient_med"`
	FineAOD   Distribution `json:"fine_aod"`
	CoarseAOD Distribution `json:"coarse_aod"`
	Humidity  Distribution `json:"rh_850_med"`
	Soundings int          `json:"soundings_sum"`
}

// CompareSeasons groups rows by season of year, without a year qualifier.
// Only seasons with rows are returned, ordered by season code.
func CompareSeasons(rows []domain.MergedMonth) []SeasonalComparison {
	groups := make(map[string][]domain.MergedMonth)
	for _, row := range rows {
		s := domain.MeteorologicalSeason(row.Month.Month)
		groups[s] = append(groups[s], row)
	}

	seasons := make([]string, 0, len(groups))
	for s := range groups {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)

	out := make([]SeasonalComparison, 0, len(seasons))
	for _, s := range seasons {
		group := groups[s]
		var st, fine, coarse, rh []*float64
		total := 0
		for _, row := range group {
			st = append(st, row.GradientMedian)
			fine = append(fine, row.FineAOD)
			coarse = append(coarse, row.CoarseAOD)
			rh = append(rh, row.RH850Median)
			total += row.Soundings
		}
		out = append(out, SeasonalComparison{
			Season:    s,
			Stability: Describe(st...),
			FineAOD:   Describe(fine...),
			CoarseAOD: Describe(coarse...),
			Humidity:  Describe(rh...),
			Soundings: total,
		})
	}
	return out
}

func ptr[T any](v T) *T { return &v }
