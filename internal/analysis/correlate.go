package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Pair names two variables of a merged month to correlate.
type Pair struct {
	Metric string
	X      func(domain.MergedMonth) *float64
	Y      func(domain.MergedMonth) *float64
}

func stability(m domain.MergedMonth) *float64 { return m.GradientMedian }
func fineAOD(m domain.MergedMonth) *float64   { return m.FineAOD }
func coarseAOD(m domain.MergedMonth) *float64 { return m.CoarseAOD }
func fineFrac(m domain.MergedMonth) *float64  { return m.FineModeFraction }
func humidity(m domain.MergedMonth) *float64  { return m.RH850Median }

// DefaultPairs are the correlations reported for every run, in output order.
var DefaultPairs = []Pair{
	{Metric: "stability_vs_fine_aod", X: stability, Y: fineAOD},
	{Metric: "stability_vs_coarse_aod", X: stability, Y: coarseAOD},
	{Metric: "stability_vs_fine_fraction", X: stability, Y: fineFrac},
	{Metric: "humidity_vs_fine_aod", X: humidity, Y: fineAOD},
}

// Correlation is the Pearson result for one pair.
type Correlation struct {
	Metric      string  `json:"metric"`
	R           float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	N           int     `json:"n"`
	Significant bool    `json:"significant"`
}

// Pearson returns the correlation coefficient of x and y and its two-sided
// p-value under a Student-t distribution with n-2 degrees of freedom. ok is
// false for fewer than three pairs or when r is undefined.
func Pearson(x, y []float64) (r, p float64, ok bool) {
	n := len(x)
	if n < 3 || n != len(y) {
		return 0, 0, false
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, 0, false
	}
	r = math.Max(-1, math.Min(1, r))
	if math.Abs(r) == 1 {
		return r, 0, true
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return r, math.Min(1, p), true
}

// Correlate evaluates each pair over the rows where both variables are
// present. Pairs with too few rows or an undefined coefficient are omitted;
// their metric names are returned in omitted.
func Correlate(rows []domain.MergedMonth, pairs []Pair, t Thresholds) (out []Correlation, omitted []string) {
	for _, pair := range pairs {
		var xs, ys []float64
		for _, row := range rows {
			x, y := pair.X(row), pair.Y(row)
			if !present(x) || !present(y) {
				continue
			}
			xs = append(xs, *x)
			ys = append(ys, *y)
		}
		if len(xs) < t.MinPairs {
			omitted = append(omitted, pair.Metric)
			continue
		}
		r, p, ok := Pearson(xs, ys)
		if !ok {
			omitted = append(omitted, pair.Metric)
			continue
		}
		out = append(out, Correlation{
			Metric:      pair.Metric,
			R:           r,
			PValue:      p,
			N:           len(xs),
			Significant: p < t.SignificanceAlpha,
		})
	}
	return out, omitted
}

// Find returns the correlation for metric, if it was computed.
func Find(corrs []Correlation, metric string) (Correlation, bool) {
	for _, c := range corrs {
		if c.Metric == metric {
			return c, true
		}
	}
	return Correlation{}, false
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}
