package analysis

import (
	"errors"
	"fmt"
)

// Thresholds holds every classification cut-off used by the analysis stage.
type Thresholds struct {
	StrongInversionK float64 `yaml:"strong_inversion_k"`
	HighFineAOD      float64 `yaml:"high_fine_aod"`
	HighRHPct        float64 `yaml:"high_rh_pct"`

	// Dispersion categories: below ExcellentBelowK is Excellent, below
	// GoodBelowK is Good, below ModerateBelowK is Moderate, else Poor.
	ExcellentBelowK float64 `yaml:"dispersion_excellent_below_k"`
	GoodBelowK      float64 `yaml:"dispersion_good_below_k"`
	ModerateBelowK  float64 `yaml:"dispersion_moderate_below_k"`

	CombustionFraction float64 `yaml:"combustion_fraction"`
	MixedFraction      float64 `yaml:"mixed_fraction"`

	SignificanceAlpha float64 `yaml:"significance_alpha"`
	SeasonalRatio     float64 `yaml:"seasonal_ratio"`
	MinPairs          int     `yaml:"min_pairs"`
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongInversionK:   12,
		HighFineAOD:        0.3,
		HighRHPct:          70,
		ExcellentBelowK:    8,
		GoodBelowK:         12,
		ModerateBelowK:     15,
		CombustionFraction: 0.6,
		MixedFraction:      0.4,
		SignificanceAlpha:  0.05,
		SeasonalRatio:      1.3,
		MinPairs:           3,
	}
}

// Validate checks that the thresholds describe ordered, non-overlapping classes.
func (t Thresholds) Validate() error {
	var errs []error
	if !(t.ExcellentBelowK < t.GoodBelowK && t.GoodBelowK < t.ModerateBelowK) {
		errs = append(errs, fmt.Errorf("dispersion cut-offs must be increasing: %g, %g, %g",
			t.ExcellentBelowK, t.GoodBelowK, t.ModerateBelowK))
	}
	if t.MixedFraction >= t.CombustionFraction {
		errs = append(errs, fmt.Errorf("mixed fraction %g must be below combustion fraction %g",
			t.MixedFraction, t.CombustionFraction))
	}
	if t.SignificanceAlpha <= 0 || t.SignificanceAlpha >= 1 {
		errs = append(errs, fmt.Errorf("significance alpha %g must be in (0, 1)", t.SignificanceAlpha))
	}
	if t.SeasonalRatio <= 0 {
		errs = append(errs, fmt.Errorf("seasonal ratio %g must be positive", t.SeasonalRatio))
	}
	if t.MinPairs < 3 {
		errs = append(errs, fmt.Errorf("min pairs %d must be at least 3", t.MinPairs))
	}
	return errors.Join(errs...)
}
