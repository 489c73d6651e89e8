package analysis

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Insight is one natural-language finding.
type Insight struct {
	Category    string `json:"category"`
	Finding     string `json:"insight"`
	Implication string `json:"implication"`
	Evidence    string `json:"evidence"`
}

// Insight categories, in emission order.
const (
	CategoryDynamics    = "Atmospheric Dynamics"
	CategorySeasonal    = "Seasonal Variation"
	CategoryAirQuality  = "Air Quality Events"
	CategoryMoisture    = "Moisture Effects"
	stabilityFineMetric = "stability_vs_fine_aod"
)

// GenerateInsights derives findings from the merged rows and correlations.
// The output depends only on its inputs.
func GenerateInsights(rows []domain.MergedMonth, corrs []Correlation, t Thresholds) []Insight {
	var out []Insight

	if c, ok := Find(corrs, stabilityFineMetric); ok && c.Significant {
		out = append(out, Insight{
			Category:    CategoryDynamics,
			Finding:     fmt.Sprintf("Strong stability correlates with fine-mode aerosols (r=%s)", FormatFloat(c.R, 3)),
			Implication: "Inversions trap combustion emissions near surface",
			Evidence:    fmt.Sprintf("p-value = %s", FormatFloat(c.PValue, 4)),
		})
	}

	winter, winterOK := meanStability(rows, time.December, time.January, time.February)
	summer, summerOK := meanStability(rows, time.June, time.July, time.August)
	if winterOK && summerOK && winter > summer*t.SeasonalRatio {
		out = append(out, Insight{
			Category:    CategorySeasonal,
			Finding:     "Winter shows significantly stronger inversions",
			Implication: "Heating season exacerbates air quality issues",
			Evidence:    fmt.Sprintf("Winter: %.1fK vs Summer: %.1fK", winter, summer),
		})
	}

	episodes := 0
	for _, row := range rows {
		if EvaluateEpisode(row, t).HighPollution {
			episodes++
		}
	}
	if episodes > 0 {
		out = append(out, Insight{
			Category:    CategoryAirQuality,
			Finding:     fmt.Sprintf("%d months with combined high stability + aerosols", episodes),
			Implication: "Critical periods for health interventions",
			Evidence: fmt.Sprintf("θ-gradient >%sK and fine-mode AOD >%s",
				FormatFloat(t.StrongInversionK, 3), FormatFloat(t.HighFineAOD, 3)),
		})
	}

	var humid int
	var fine []*float64
	for _, row := range rows {
		if present(row.RH850Median) && *row.RH850Median > t.HighRHPct {
			humid++
			fine = append(fine, row.FineAOD)
		}
	}
	if humid > 0 {
		mean := "n/a"
		if xs := domain.Present(fine...); len(xs) > 0 {
			mean = fmt.Sprintf("%.3f", stat.Mean(xs, nil))
		}
		out = append(out, Insight{
			Category:    CategoryMoisture,
			Finding:     fmt.Sprintf("High humidity months show elevated fine aerosols (mean AOD: %s)", mean),
			Implication: "Hygroscopic growth enhances particle concentrations",
			Evidence:    fmt.Sprintf("%d months with RH >%s%%", humid, FormatFloat(t.HighRHPct, 3)),
		})
	}
	return out
}

func meanStability(rows []domain.MergedMonth, months ...time.Month) (float64, bool) {
	var xs []float64
	for _, row := range rows {
		for _, m := range months {
			if row.Month.Month == m && present(row.GradientMedian) {
				xs = append(xs, *row.GradientMedian)
			}
		}
	}
	if len(xs) == 0 {
		return 0, false
	}
	return stat.Mean(xs, nil), true
}

// Round rounds v to the given number of decimal places, half to even.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow10(places)
	return math.RoundToEven(v*scale) / scale
}

// FormatFloat rounds v and renders it in its shortest form.
func FormatFloat(v float64, places int) string {
	return strconv.FormatFloat(Round(v, places), 'f', -1, 64)
}
