package report

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// ParseMerged reads a merged combo table back into records. Columns are
// located by name; empty cells are absent. Rows are returned ascending by month.
func ParseMerged(t Table) ([]domain.MergedMonth, error) {
	want := concat(ColMonth, soundingStatsColumns, opticalDepthColumns, spectralColumns)
	idx := make(map[string]int, len(want))
	for _, name := range want {
		i := t.Column(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, name)
		}
		idx[name] = i
	}

	out := make([]domain.MergedMonth, 0, len(t.Rows))
	for n, cells := range t.Rows {
		p := cellParser{cells: cells, idx: idx}
		month, err := domain.ParseMonth(p.text(ColMonth))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}

		m := domain.MergedMonth{Month: month}
		m.GradientMedian = p.float(ColGradientMedian)
		m.GradientIQR = p.float(ColGradientIQR)
		m.RH850Median = p.float(ColRH850Median)
		m.HeightDiffMedian = p.float(ColHeightDiffMedian)
		if v := p.float(ColSoundings); v != nil {
			m.Soundings = int(*v)
		}
		m.AOD500 = p.float(ColAOD500)
		m.AOD870 = p.float(ColAOD870)
		m.Angstrom = p.float(ColAngstrom)
		if v := p.float(ColNumDays); v != nil {
			days := int(math.Round(*v))
			m.ObsDays = &days
		}
		m.TotalAOD = p.float(ColTotalAOD)
		m.FineAOD = p.float(ColFineAOD)
		m.CoarseAOD = p.float(ColCoarseAOD)
		m.FineModeFraction = p.float(ColFineModeFraction)
		if p.err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, p.err)
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b domain.MergedMonth) int { return a.Month.Compare(b.Month) })
	return out, nil
}

type cellParser struct {
	cells []string
	idx   map[string]int
	err   error
}

func (p *cellParser) text(col string) string {
	i := p.idx[col]
	if i >= len(p.cells) {
		return ""
	}
	return strings.TrimSpace(p.cells[i])
}

func (p *cellParser) float(col string) *float64 {
	s := p.text(col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("column %s: %w", col, err)
		}
		return nil
	}
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
