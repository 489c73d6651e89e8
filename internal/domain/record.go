package domain

import "time"

// Header is a validated sounding header.
type Header struct {
	Station    string
	Year       int
	Month      int
	Day        int
	Hour       int
	LevelCount int
}

// Time returns the nominal observation time in UTC.
func (h Header) Time() time.Time {
	return time.Date(h.Year, time.Month(h.Month), h.Day, h.Hour, 0, 0, 0, time.UTC)
}

// Level is one pressure level of a sounding. Key is the pressure rounded to
// the nearest hPa and is the lookup key within a sounding.
type Level struct {
	Key         int
	Type        int
	PressureHPa float64
	HeightM     *float64
	TempC       *float64
	RHPct       *float64
}

// Sounding holds the per-sounding derived quantities.
type Sounding struct {
	Station           string    `json:"station,omitempty"`
	Time              time.Time `json:"time"`
	InversionGradient float64   `json:"theta_gradient_700_925_K"`
	Theta850          *float64  `json:"theta_850_K,omitempty"`
	RH850             *float64  `json:"relative_humidity_850_pct,omitempty"`
	Height925         *float64  `json:"height_925_m,omitempty"`
	HeightDiff        *float64  `json:"height_diff_700_925_m,omitempty"`
}

// SoundingStats are the aggregates computed over a group of soundings.
type SoundingStats struct {
	GradientMedian   *float64 `json:"theta_gradient_med"`
	GradientIQR      *float64 `json:"theta_gradient_iqr"`
	RH850Median      *float64 `json:"rh_850_med"`
	HeightDiffMedian *float64 `json:"height_diff_med"`
	Soundings        int      `json:"soundings"`
}

// MonthlySoundingMetric aggregates soundings of one calendar month.
type MonthlySoundingMetric struct {
	Month Month `json:"month"`
	SoundingStats
}

// SeasonalSoundingMetric aggregates soundings of one season-year, e.g. "2011-DJF".
type SeasonalSoundingMetric struct {
	Season string `json:"season"`
	SoundingStats
}

// OpticalDepth holds the direct-sun AOD product fields.
type OpticalDepth struct {
	AOD500   *float64 `json:"AOD_500nm"`
	AOD870   *float64 `json:"AOD_870nm"`
	Angstrom *float64 `json:"AE_440_870"`
	ObsDays  *int     `json:"obs_days"`
}

// SpectralDeconvolution holds the SDA product fields.
type SpectralDeconvolution struct {
	TotalAOD         *float64 `json:"Total_AOD_500nm[tau_a]"`
	FineAOD          *float64 `json:"Fine_Mode_AOD_500nm[tau_f]"`
	CoarseAOD        *float64 `json:"Coarse_Mode_AOD_500nm[tau_c]"`
	FineModeFraction *float64 `json:"FineModeFraction_500nm[eta]"`
}

// OpticalDepthMonth is one monthly row of the AOD product.
type OpticalDepthMonth struct {
	Month Month
	OpticalDepth
}

// SpectralMonth is one monthly row of the SDA product.
type SpectralMonth struct {
	Month Month
	SpectralDeconvolution
}

// AerosolMonth is the inner join of both AERONET products for one month.
type AerosolMonth struct {
	Month Month `json:"month"`
	OpticalDepth
	SpectralDeconvolution
}

// MergedMonth is the inner join of sounding and aerosol metrics for one month.
type MergedMonth struct {
	Month Month `json:"month"`
	SoundingStats
	OpticalDepth
	SpectralDeconvolution
}

// Stability returns the median inversion gradient. It is always present on
// rows produced by MergeMonthly.
func (m MergedMonth) Stability() (float64, bool) {
	if m.GradientMedian == nil {
		return 0, false
	}
	return *m.GradientMedian, true
}

func ptr[T any](v T) *T { return &v }
