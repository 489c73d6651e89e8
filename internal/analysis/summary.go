package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Summary holds headline statistics of the merged dataset.
type Summary struct {
	Start         *domain.Month
	End           *domain.Month
	Months        int
	MeanStability *float64
	MeanFineAOD   *float64
	MeanCoarseAOD *float64
	MeanRH850     *float64
	Episodes      int
	// Dispersion counts months per dispersion category, in category order.
	Dispersion []LabelCount
}

// LabelCount is a label with its number of occurrences.
type LabelCount struct {
	Label string
	Count int
}

// Summarize computes the headline statistics. rows must be ascending by month.
func Summarize(rows []domain.MergedMonth, mixing []Mixing, episodes []Episode) Summary {
	s := Summary{Months: len(rows), Episodes: len(episodes)}
	if len(rows) > 0 {
		s.Start = ptr(rows[0].Month)
		s.End = ptr(rows[len(rows)-1].Month)
	}

	var st, fine, coarse, rh []*float64
	for _, row := range rows {
		st = append(st, row.GradientMedian)
		fine = append(fine, row.FineAOD)
		coarse = append(coarse, row.CoarseAOD)
		rh = append(rh, row.RH850Median)
	}
	s.MeanStability = mean(st)
	s.MeanFineAOD = mean(fine)
	s.MeanCoarseAOD = mean(coarse)
	s.MeanRH850 = mean(rh)

	counts := make(map[string]int)
	for _, m := range mixing {
		counts[m.Dispersion]++
	}
	for _, label := range []string{DispersionExcellent, DispersionGood, DispersionModerate, DispersionPoor} {
		s.Dispersion = append(s.Dispersion, LabelCount{Label: label, Count: counts[label]})
	}
	return s
}

func mean(values []*float64) *float64 {
	xs := domain.Present(values...)
	if len(xs) == 0 {
		return nil
	}
	return ptr(stat.Mean(xs, nil))
}
