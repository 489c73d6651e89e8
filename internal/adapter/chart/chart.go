// Package chart renders the stability against fine-mode AOD scatter plot.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// FileName is the chart file written to the output directory.
const FileName = "stability_vs_fine_aod.png"

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// Writer draws one scatter series per season with a least-squares fit over
// all points. It implements pipeline.MergedLoader.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a chart writer for dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Name identifies the sink.
func (w *Writer) Name() string { return "chart" }

// Path returns the chart file path.
func (w *Writer) Path() string { return filepath.Join(w.dir, FileName) }

// LoadMerged renders the chart. Months without a fine-mode AOD are skipped;
// nothing is written when no month has one.
func (w *Writer) LoadMerged(ctx context.Context, months []domain.MergedMonth) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bySeason := Points(months)
	if len(bySeason) == 0 {
		w.logger.Warn("chart skipped, no month has a fine-mode AOD")
		return nil
	}

	p, err := Render(bySeason)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := p.Save(width, height, w.Path()); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	w.logger.Info("chart written", "file", w.Path())
	return nil
}

// Points groups (stability, fine AOD) pairs by meteorological season.
func Points(months []domain.MergedMonth) map[string]plotter.XYs {
	out := map[string]plotter.XYs{}
	for _, m := range months {
		stability, ok := m.Stability()
		if !ok || m.FineAOD == nil {
			continue
		}
		season := domain.MeteorologicalSeason(m.Month.Month)
		out[season] = append(out[season], plotter.XY{X: stability, Y: *m.FineAOD})
	}
	return out
}

// Render builds the plot from season series.
func Render(bySeason map[string]plotter.XYs) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Lower-troposphere stability vs fine-mode AOD"
	p.X.Label.Text = "θ gradient 700-925 hPa (K)"
	p.Y.Label.Text = "Fine-mode AOD 500 nm"
	p.Add(plotter.NewGrid())

	var xs, ys []float64
	seasons := make([]string, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	slices.Sort(seasons)

	for i, season := range seasons {
		pts := bySeason[season]
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("scatter %s: %w", season, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add(season, sc)
		for _, pt := range pts {
			xs = append(xs, pt.X)
			ys = append(ys, pt.Y)
		}
	}

	if fit, ok := FitLine(xs, ys); ok {
		line, err := plotter.NewLine(fit)
		if err != nil {
			return nil, fmt.Errorf("fit line: %w", err)
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add("least-squares fit", line)
	}
	p.Legend.Top = true
	return p, nil
}

// FitLine returns the endpoints of the least-squares line over the x range.
// ok is false with fewer than two points or no spread in x.
func FitLine(xs, ys []float64) (plotter.XYs, bool) {
	if len(xs) < 2 {
		return nil, false
	}
	lo, hi := slices.Min(xs), slices.Max(xs)
	if lo == hi {
		return nil, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return plotter.XYs{{X: lo, Y: alpha + beta*lo}, {X: hi, Y: alpha + beta*hi}}, true
}
