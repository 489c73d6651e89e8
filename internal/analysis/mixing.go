package analysis

import "github.com/couchcryptid/near-space-etl/internal/domain"

// Mixing holds the boundary-layer mixing indicators of one month.
type Mixing struct {
	Month            domain.Month `json:"month"`
	Stability        *float64     `json:"theta_gradient_med"`
	RH850            *float64     `json:"rh_850_med"`
	MixingPotential  *float64     `json:"mixing_potential"`
	VentilationIndex *float64     `json:"ventilation_index"`
	Dispersion       string       `json:"dispersion_potential"`
}

// MixingPotential returns 1/(stability+1). It is absent at stability -1.
func MixingPotential(stability float64) *float64 {
	if stability == -1 {
		return nil
	}
	return ptr(1 / (stability + 1))
}

// VentilationIndex returns mixing potential × (100 − RH), absent when
// either input is.
func VentilationIndex(mixing, rh *float64) *float64 {
	if mixing == nil || !present(rh) {
		return nil
	}
	return ptr(*mixing * (100 - *rh))
}

// MixingMetrics computes mixing indicators for every row with a stability value.
func MixingMetrics(rows []domain.MergedMonth, t Thresholds) []Mixing {
	out := make([]Mixing, 0, len(rows))
	for _, row := range rows {
		s, ok := row.Stability()
		if !ok {
			continue
		}
		mp := MixingPotential(s)
		out = append(out, Mixing{
			Month:            row.Month,
			Stability:        row.GradientMedian,
			RH850:            row.RH850Median,
			MixingPotential:  mp,
			VentilationIndex: VentilationIndex(mp, row.RH850Median),
			Dispersion:       Dispersion(t, s),
		})
	}
	return out
}
