package domain

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when an aerosol file lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// AERONET column names.
const (
	ColMonth            = "Month"
	ColAOD500           = "AOD_500nm"
	ColAOD870           = "AOD_870nm"
	ColAngstrom         = "440-870_Angstrom_Exponent"
	ColNumDays          = "NUM_DAYS[AOD_500nm]"
	ColTotalAOD         = "Total_AOD_500nm[tau_a]"
	ColFineAOD          = "Fine_Mode_AOD_500nm[tau_f]"
	ColCoarseAOD        = "Coarse_Mode_AOD_500nm[tau_c]"
	ColFineModeFraction = "FineModeFraction_500nm[eta]"
)

// DefaultAerosolSentinel is the AERONET missing-value code.
const DefaultAerosolSentinel = "-999.000000"

// AerosolReadOptions controls how AERONET monthly files are read.
type AerosolReadOptions struct {
	// SkipLines is the number of metadata lines ahead of the column header.
	SkipLines int
	Sentinels []string
}

// DefaultAerosolReadOptions matches the AERONET Version 3 monthly layout.
func DefaultAerosolReadOptions() AerosolReadOptions {
	return AerosolReadOptions{SkipLines: 6, Sentinels: []string{DefaultAerosolSentinel}}
}

// AerosolStats counts rows seen while reading an aerosol file.
type AerosolStats struct {
	Rows             int
	Kept             int
	DroppedNonMonth  int
	DroppedDuplicate int
}

// ReadOpticalDepth reads the AERONET direct-sun monthly AOD product.
func ReadOpticalDepth(r io.Reader, opts AerosolReadOptions) ([]OpticalDepthMonth, AerosolStats, error) {
	var out []OpticalDepthMonth
	stats, err := readAerosolTable(r, opts,
		[]string{ColAOD500, ColAOD870, ColAngstrom, ColNumDays},
		func(m Month, row aerosolRow) {
			od := OpticalDepth{
				AOD500:   row.value(ColAOD500),
				AOD870:   row.value(ColAOD870),
				Angstrom: row.value(ColAngstrom),
			}
			if days := row.value(ColNumDays); days != nil {
				od.ObsDays = ptr(int(math.Round(*days)))
			}
			out = append(out, OpticalDepthMonth{Month: m, OpticalDepth: od})
		})
	if err != nil {
		return nil, stats, fmt.Errorf("read optical depth: %w", err)
	}
	return out, stats, nil
}

// ReadSpectralDeconvolution reads the AERONET SDA monthly product.
func ReadSpectralDeconvolution(r io.Reader, opts AerosolReadOptions) ([]SpectralMonth, AerosolStats, error) {
	var out []SpectralMonth
	stats, err := readAerosolTable(r, opts,
		[]string{ColTotalAOD, ColFineAOD, ColCoarseAOD, ColFineModeFraction},
		func(m Month, row aerosolRow) {
			out = append(out, SpectralMonth{Month: m, SpectralDeconvolution: SpectralDeconvolution{
				TotalAOD:         row.value(ColTotalAOD),
				FineAOD:          row.value(ColFineAOD),
				CoarseAOD:        row.value(ColCoarseAOD),
				FineModeFraction: row.value(ColFineModeFraction),
			}})
		})
	if err != nil {
		return nil, stats, fmt.Errorf("read spectral deconvolution: %w", err)
	}
	return out, stats, nil
}

// aerosolRow resolves cells of one data row by column name.
type aerosolRow struct {
	cells     []string
	index     map[string]int
	sentinels []string
}

// value returns the numeric cell for a column; blanks, sentinels and
// non-numeric text are absent.
func (r aerosolRow) value(col string) *float64 {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return nil
	}
	s := strings.TrimSpace(r.cells[i])
	if s == "" || slices.Contains(r.sentinels, s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	for _, sentinel := range r.sentinels {
		if sv, err := strconv.ParseFloat(sentinel, 64); err == nil && sv == v {
			return nil
		}
	}
	return &v
}

// readAerosolTable skips the metadata lines, maps the header, and calls emit
// once per row carrying a month token. The first row for a month wins.
func readAerosolTable(r io.Reader, opts AerosolReadOptions, required []string, emit func(Month, aerosolRow)) (AerosolStats, error) {
	var stats AerosolStats
	br := bufio.NewReader(r)
	for i := 0; i < opts.SkipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return stats, fmt.Errorf("file ends inside the %d metadata lines", opts.SkipLines)
			}
			return stats, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return stats, fmt.Errorf("no column header after %d metadata lines", opts.SkipLines)
	}
	if err != nil {
		return stats, fmt.Errorf("read column header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range append([]string{ColMonth}, required...) {
		if _, ok := index[col]; !ok {
			return stats, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	seen := make(map[Month]bool)
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		monthIdx := index[ColMonth]
		if monthIdx >= len(cells) {
			stats.DroppedNonMonth++
			continue
		}
		m, ok := ParseMonthToken(cells[monthIdx])
		if !ok {
			stats.DroppedNonMonth++
			continue
		}
		if seen[m] {
			stats.DroppedDuplicate++
			continue
		}
		seen[m] = true
		stats.Kept++
		emit(m, aerosolRow{cells: cells, index: index, sentinels: opts.Sentinels})
	}
	return stats, nil
}
