// Command validate performs integrity checks over the output directory of a
// pipeline run: every table is present with the expected header, the merged
// combo respects the month floor and ordering, analysis values are in range
// and consistent with their inputs, and the analysis tables are reproduced
// exactly from the combo.
//
// Usage:
//
//	go run ./cmd/validate -output-dir outputs [-floor 2010-01] [-thresholds thresholds.yaml]
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/couchcryptid/near-space-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/near-space-etl/internal/analysis"
	"github.com/couchcryptid/near-space-etl/internal/config"
	"github.com/couchcryptid/near-space-etl/internal/domain"
	"github.com/couchcryptid/near-space-etl/internal/report"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	outputDir := flag.String("output-dir", "outputs", "pipeline output directory")
	floor := flag.String("floor", domain.DefaultMergeFloor.String(), "merge floor month (YYYY-MM)")
	thresholdsFile := flag.String("thresholds", "", "optional YAML thresholds file used for the run")
	flag.Parse()

	floorMonth, err := domain.ParseMonth(*floor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: invalid -floor: %v\n", err)
		os.Exit(1)
	}
	th := analysis.DefaultThresholds()
	if *thresholdsFile != "" {
		if th, err = config.LoadThresholds(*thresholdsFile); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("=== Near-Space Output Validation ===")
	fmt.Println()
	if code := printReport(validate(*outputDir, floorMonth, th)); code != 0 {
		os.Exit(code)
	}
}

// outputs holds the tables read from the output directory, by name.
type outputs map[string]report.Table

func validate(dir string, floor domain.Month, th analysis.Thresholds) []*phase {
	tables, files := loadOutputs(dir)

	combo := &phase{name: "Merged combo invariants"}
	merged, err := report.ParseMerged(tables[report.MonthlyCombo])
	if err != nil {
		combo.errorf("parse combo: %v", err)
	} else {
		validateCombo(combo, tables[report.MonthlyCombo], merged, floor)
	}

	phases := []*phase{files, combo}
	if err != nil {
		return phases
	}
	rep := analysis.Analyze(merged, th)
	return append(phases,
		validateProcessingConsistency(tables, merged),
		validateAnalysisRanges(tables, merged, th),
		validateReproducible(tables, rep),
	)
}

func printReport(phases []*phase) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == 20 {
				fmt.Printf("  ... %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// expectedColumns lists the fixed header of every table. The source
// attribution table has one column per label that occurs and is checked
// separately.
func expectedColumns() map[string][]string {
	empty := analysis.Analyze(nil, analysis.DefaultThresholds())
	out := map[string][]string{
		report.IGRAMonthly:    report.MonthlySoundings(nil).Columns,
		report.IGRASeasonal:   report.SeasonalSoundings(nil).Columns,
		report.AeronetMonthly: report.AerosolMonthly(nil).Columns,
		report.MonthlyCombo:   report.MergedCombo(nil).Columns,
	}
	for _, t := range report.AnalysisTables(empty) {
		if t.Name != report.SourceAttribution {
			out[t.Name] = t.Columns
		}
	}
	return out
}

var sourceLabels = []string{analysis.SourceCombustion, analysis.SourceMixed, analysis.SourceDust, analysis.SourceUnknown}

func loadOutputs(dir string) (outputs, *phase) {
	p := &phase{name: "Output files and headers"}
	tables := outputs{}
	expected := expectedColumns()
	expected[report.SourceAttribution] = nil

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		t, err := csvfile.ReadTable(filepath.Join(dir, name+csvfile.Ext))
		if err != nil {
			p.errorf("%s: %v", name, err)
			continue
		}
		tables[name] = t

		if name == report.SourceAttribution {
			if len(t.Columns) == 0 || t.Columns[0] != report.ColSeason {
				p.errorf("%s: first column must be %q", name, report.ColSeason)
				continue
			}
			for _, c := range t.Columns[1:] {
				if !slices.Contains(sourceLabels, c) {
					p.errorf("%s: unknown source label column %q", name, c)
				}
			}
			continue
		}
		if !slices.Equal(t.Columns, expected[name]) {
			p.errorf("%s: header %v, want %v", name, t.Columns, expected[name])
		}
		for i, row := range t.Rows {
			if len(row) != len(t.Columns) {
				p.errorf("%s row %d: %d cells for %d columns", name, i+1, len(row), len(t.Columns))
			}
		}
	}
	return tables, p
}

// ── Validation phases ──

// cell returns row[i], or "" for a short row or missing column.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func validateCombo(p *phase, t report.Table, merged []domain.MergedMonth, floor domain.Month) {
	col := t.Column(report.ColMonth)
	for i, row := range t.Rows {
		m, err := domain.ParseMonth(cell(row, col))
		if err != nil {
			continue
		}
		if i > 0 {
			prev, err := domain.ParseMonth(cell(t.Rows[i-1], col))
			if err == nil && !prev.Before(m) {
				p.errorf("row %d: month %s not after %s", i+1, m, prev)
			}
		}
	}

	for _, m := range merged {
		if m.Month.Before(floor) {
			p.errorf("%s: before merge floor %s", m.Month, floor)
		}
		if _, ok := m.Stability(); !ok {
			p.errorf("%s: missing %s", m.Month, report.ColGradientMedian)
		}
		if m.Soundings < 1 {
			p.errorf("%s: %d soundings", m.Month, m.Soundings)
		}
		if m.FineModeFraction != nil && (*m.FineModeFraction < 0 || *m.FineModeFraction > 1) {
			p.errorf("%s: fine mode fraction %g outside [0,1]", m.Month, *m.FineModeFraction)
		}
		if m.RH850Median != nil && (*m.RH850Median < 0 || *m.RH850Median > 100) {
			p.errorf("%s: rh_850 %g outside [0,100]", m.Month, *m.RH850Median)
		}
	}
}

// validateProcessingConsistency checks that every combo month carries the
// same cells as the monthly sounding and aerosol tables.
func validateProcessingConsistency(tables outputs, merged []domain.MergedMonth) *phase {
	p := &phase{name: "Combo matches processing tables"}
	combo := tables[report.MonthlyCombo]
	for _, src := range []string{report.IGRAMonthly, report.AeronetMonthly} {
		t, ok := tables[src]
		if !ok {
			p.errorf("%s: missing", src)
			continue
		}
		byMonth := map[string][]string{}
		for _, row := range t.Rows {
			byMonth[cell(row, 0)] = row
		}
		for _, row := range combo.Rows {
			month := cell(row, 0)
			other, ok := byMonth[month]
			if !ok {
				p.errorf("%s: combo month %s absent", src, month)
				continue
			}
			for j, c := range t.Columns[1:] {
				ci := combo.Column(c)
				if ci < 0 {
					continue
				}
				if got, want := cell(row, ci), cell(other, j+1); got != want {
					p.errorf("%s %s %s: combo %q, source %q", src, month, c, got, want)
				}
			}
		}
	}
	if len(combo.Rows) != len(merged) {
		p.errorf("combo has %d rows, parsed %d", len(combo.Rows), len(merged))
	}
	return p
}

func validateAnalysisRanges(tables outputs, merged []domain.MergedMonth, th analysis.Thresholds) *phase {
	p := &phase{name: "Analysis values in range"}
	byMonth := map[string]domain.MergedMonth{}
	byLabel := map[string]domain.MergedMonth{}
	for _, m := range merged {
		byMonth[m.Month.String()] = m
		byLabel[m.Month.Label()] = m
	}

	corr := tables[report.CorrelationAnalysis]
	for _, row := range corr.Rows {
		metric := cell(row, 0)
		r, errR := strconv.ParseFloat(cell(row, corr.Column(report.ColCorrelation)), 64)
		pv, errP := strconv.ParseFloat(cell(row, corr.Column(report.ColPValue)), 64)
		if errR != nil || errP != nil {
			p.errorf("correlation %s: unparsable values", metric)
			continue
		}
		if r < -1 || r > 1 {
			p.errorf("correlation %s: r=%g outside [-1,1]", metric, r)
		}
		if pv < 0 || pv > 1 {
			p.errorf("correlation %s: p=%g outside [0,1]", metric, pv)
		}
		// p-values are rounded to four places; labels within rounding of alpha are not checked.
		if math.Abs(pv-th.SignificanceAlpha) > 1e-4 {
			if wantSig := pv < th.SignificanceAlpha; (cell(row, corr.Column(report.ColSignificant)) == "significant") != wantSig {
				p.errorf("correlation %s: significance label inconsistent with p=%g", metric, pv)
			}
		}
	}

	mix := tables[report.MixingMetrics]
	for _, row := range mix.Rows {
		month := cell(row, 0)
		m, ok := byMonth[month]
		if !ok {
			p.errorf("mixing %s: month not in combo", month)
			continue
		}
		s, _ := m.Stability()
		if got, want := cell(row, mix.Column(report.ColDispersion)), analysis.Dispersion(th, s); got != want {
			p.errorf("mixing %s: dispersion %q, stability %g implies %q", month, got, s, want)
		}
	}

	ep := tables[report.HighPollution]
	for _, row := range ep.Rows {
		label := cell(row, 0)
		m, ok := byLabel[label]
		if !ok {
			p.errorf("episode %s: month not in combo", label)
			continue
		}
		if !analysis.EvaluateEpisode(m, th).HighPollution {
			p.errorf("episode %s: month does not meet the episode thresholds", label)
		}
	}
	return p
}

// validateReproducible re-runs the analysis on the combo and compares every
// analysis table cell for cell.
func validateReproducible(tables outputs, rep analysis.Report) *phase {
	p := &phase{name: "Analysis reproducible from combo"}
	for _, want := range report.AnalysisTables(rep) {
		got, ok := tables[want.Name]
		if !ok {
			continue
		}
		if len(got.Rows) != len(want.Rows) {
			p.errorf("%s: %d rows, want %d", want.Name, len(got.Rows), len(want.Rows))
			continue
		}
		for i := range want.Rows {
			if !slices.Equal(got.Rows[i], want.Rows[i]) {
				p.errorf("%s row %d: %v, want %v", want.Name, i+1, got.Rows[i], want.Rows[i])
			}
		}
	}
	return p
}
