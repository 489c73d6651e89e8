package report

import (
	"strconv"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Column names shared by the processing tables.
const (
	ColMonth            = "month"
	ColSeason           = "season"
	ColGradientMedian   = "theta_gradient_med"
	ColGradientIQR      = "theta_gradient_iqr"
	ColRH850Median      = "rh_850_med"
	ColHeightDiffMedian = "height_diff_med"
	ColSoundings        = "soundings"
	ColAOD500           = domain.ColAOD500
	ColAOD870           = domain.ColAOD870
	ColAngstrom         = "AE_440_870"
	ColNumDays          = domain.ColNumDays
	ColTotalAOD         = domain.ColTotalAOD
	ColFineAOD          = domain.ColFineAOD
	ColCoarseAOD        = domain.ColCoarseAOD
	ColFineModeFraction = domain.ColFineModeFraction
)

var (
	soundingStatsColumns = []string{ColGradientMedian, ColGradientIQR, ColRH850Median, ColHeightDiffMedian, ColSoundings}
	opticalDepthColumns  = []string{ColAOD500, ColAOD870, ColAngstrom, ColNumDays}
	spectralColumns      = []string{ColTotalAOD, ColFineAOD, ColCoarseAOD, ColFineModeFraction}
)

// concat prepends lead to the concatenated groups.
func concat(lead string, groups ...[]string) []string {
	out := []string{lead}
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func soundingStatsCells(s domain.SoundingStats) []string {
	return []string{full(s.GradientMedian), full(s.GradientIQR), full(s.RH850Median), full(s.HeightDiffMedian), strconv.Itoa(s.Soundings)}
}

func opticalDepthCells(o domain.OpticalDepth) []string {
	return []string{full(o.AOD500), full(o.AOD870), full(o.Angstrom), integer(o.ObsDays)}
}

func spectralCells(s domain.SpectralDeconvolution) []string {
	return []string{full(s.TotalAOD), full(s.FineAOD), full(s.CoarseAOD), full(s.FineModeFraction)}
}

// MonthlySoundings renders the monthly sounding metrics.
func MonthlySoundings(metrics []domain.MonthlySoundingMetric) Table {
	t := Table{Name: IGRAMonthly, Columns: concat(ColMonth, soundingStatsColumns)}
	for _, m := range metrics {
		t.Rows = append(t.Rows, concat(m.Month.String(), soundingStatsCells(m.SoundingStats)))
	}
	return t
}

// SeasonalSoundings renders the season-year sounding metrics.
func SeasonalSoundings(metrics []domain.SeasonalSoundingMetric) Table {
	t := Table{Name: IGRASeasonal, Columns: concat(ColSeason, soundingStatsColumns)}
	for _, m := range metrics {
		t.Rows = append(t.Rows, concat(m.Season, soundingStatsCells(m.SoundingStats)))
	}
	return t
}

// AerosolMonthly renders the joined AERONET products.
func AerosolMonthly(months []domain.AerosolMonth) Table {
	t := Table{Name: AeronetMonthly, Columns: concat(ColMonth, opticalDepthColumns, spectralColumns)}
	for _, m := range months {
		t.Rows = append(t.Rows, concat(m.Month.String(), opticalDepthCells(m.OpticalDepth), spectralCells(m.SpectralDeconvolution)))
	}
	return t
}

// MergedCombo renders the merged monthly dataset. ParseMerged reads it back.
func MergedCombo(months []domain.MergedMonth) Table {
	t := Table{Name: MonthlyCombo, Columns: concat(ColMonth, soundingStatsColumns, opticalDepthColumns, spectralColumns)}
	for _, m := range months {
		t.Rows = append(t.Rows, concat(m.Month.String(),
			soundingStatsCells(m.SoundingStats), opticalDepthCells(m.OpticalDepth), spectralCells(m.SpectralDeconvolution)))
	}
	return t
}
