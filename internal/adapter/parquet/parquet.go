// Package parquet exports the merged monthly dataset as a Parquet file.
package parquet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/near-space-etl/internal/domain"
	"github.com/couchcryptid/near-space-etl/internal/report"
)

// MonthRow is the Parquet schema of one merged month. Missing values are
// null.
type MonthRow struct {
	Month            string   `parquet:"month"`
	Year             int32    `parquet:"year"`
	MonthOfYear      int32    `parquet:"month_of_year"`
	Season           string   `parquet:"season,dict"`
	GradientMedian   *float64 `parquet:"theta_gradient_med,optional"`
	GradientIQR      *float64 `parquet:"theta_gradient_iqr,optional"`
	RH850Median      *float64 `parquet:"rh_850_med,optional"`
	HeightDiffMedian *float64 `parquet:"height_diff_med,optional"`
	Soundings        int32    `parquet:"soundings"`
	AOD500           *float64 `parquet:"aod_500nm,optional"`
	AOD870           *float64 `parquet:"aod_870nm,optional"`
	Angstrom         *float64 `parquet:"ae_440_870,optional"`
	ObsDays          *int32   `parquet:"num_days_aod_500nm,optional"`
	TotalAOD         *float64 `parquet:"total_aod_500nm,optional"`
	FineAOD          *float64 `parquet:"fine_mode_aod_500nm,optional"`
	CoarseAOD        *float64 `parquet:"coarse_mode_aod_500nm,optional"`
	FineModeFraction *float64 `parquet:"fine_mode_fraction_500nm,optional"`
}

// NewMonthRow converts a merged month to its Parquet row.
func NewMonthRow(m domain.MergedMonth) MonthRow {
	row := MonthRow{
		Month:            m.Month.String(),
		Year:             int32(m.Month.Year),
		MonthOfYear:      int32(m.Month.Month),
		Season:           domain.MeteorologicalSeason(m.Month.Month),
		GradientMedian:   m.GradientMedian,
		GradientIQR:      m.GradientIQR,
		RH850Median:      m.RH850Median,
		HeightDiffMedian: m.HeightDiffMedian,
		Soundings:        int32(m.Soundings),
		AOD500:           m.AOD500,
		AOD870:           m.AOD870,
		Angstrom:         m.Angstrom,
		TotalAOD:         m.TotalAOD,
		FineAOD:          m.FineAOD,
		CoarseAOD:        m.CoarseAOD,
		FineModeFraction: m.FineModeFraction,
	}
	if m.ObsDays != nil {
		days := int32(*m.ObsDays)
		row.ObsDays = &days
	}
	return row
}

// Writer writes <dir>/near_space_monthly_combo.parquet. It implements
// pipeline.MergedLoader.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Parquet exporter for dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Name identifies the sink.
func (w *Writer) Name() string { return "parquet" }

// Path returns the exported file path.
func (w *Writer) Path() string {
	return filepath.Join(w.dir, report.MonthlyCombo+".parquet")
}

// LoadMerged writes all months as one zstd-compressed row group.
func (w *Writer) LoadMerged(ctx context.Context, months []domain.MergedMonth) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := make([]MonthRow, len(months))
	for i, m := range months {
		rows[i] = NewMonthRow(m)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := w.Path()
	tmp := path + ".tmp"
	if err := parquet.WriteFile(tmp, rows, parquet.Compression(&parquet.Zstd)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	w.logger.Info("parquet export written", "file", path, "rows", len(rows))
	return nil
}
