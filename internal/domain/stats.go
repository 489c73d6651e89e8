package domain

import (
	"math"
	"slices"
)

// Quantile returns the p-quantile of values using linear interpolation
// between closest ranks (the numpy/pandas default). It returns nil when
// values is empty.
func Quantile(values []float64, p float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return ptr(quantileSorted(sorted, p))
}

func quantileSorted(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	frac := pos - lo
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*frac
}

// Median returns the median of values, or nil when empty.
func Median(values []float64) *float64 {
	return Quantile(values, 0.5)
}

// InterquartileRange returns Q3 − Q1, or nil when values is empty.
func InterquartileRange(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return ptr(quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25))
}

// Present collects the non-nil values, skipping NaN.
func Present(values ...*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil && !math.IsNaN(*v) {
			out = append(out, *v)
		}
	}
	return out
}
