// Package synth generates deterministic synthetic radiosonde and AERONET
// monthly inputs with a seasonal inversion cycle and aerosol loading that
// follows stability. The output is byte-identical for equal options.
package synth

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Options controls the generated dataset.
type Options struct {
	Station           string
	Start             domain.Month
	End               domain.Month
	SoundingsPerMonth int
	Seed              uint64
}

// DefaultOptions spans 2008 through 2012 so that part of the record falls
// before the default merge floor.
func DefaultOptions() Options {
	return Options{
		Station:           "USM00072403",
		Start:             domain.Month{Year: 2008, Month: 1},
		End:               domain.Month{Year: 2012, Month: 12},
		SoundingsPerMonth: 8,
		Seed:              7,
	}
}

// monthClimate is the underlying monthly state the files are drawn from.
type monthClimate struct {
	month     domain.Month
	winter    float64 // 1 in January, -1 in July
	gradient  float64
	rh850     float64
	fineAOD   float64
	coarseAOD float64
}

// Generator renders the synthetic files.
type Generator struct {
	opts    Options
	months  []monthClimate
	station string
}

// New builds the monthly climate for opts.
func New(opts Options) (*Generator, error) {
	if opts.End.Before(opts.Start) {
		return nil, fmt.Errorf("end month %s before start month %s", opts.End, opts.Start)
	}
	if opts.SoundingsPerMonth < 1 || opts.SoundingsPerMonth > 28 {
		return nil, fmt.Errorf("soundings per month must be between 1 and 28, got %d", opts.SoundingsPerMonth)
	}
	g := &Generator{opts: opts, station: opts.Station}
	rng := g.rng(0)
	for m := opts.Start; !opts.End.Before(m); m = next(m) {
		winter := math.Cos(2 * math.Pi * float64(m.Month-1) / 12)
		gradient := 11 + 4*winter + rng.NormFloat64()
		g.months = append(g.months, monthClimate{
			month:     m,
			winter:    winter,
			gradient:  gradient,
			rh850:     clamp(60+12*winter+5*rng.NormFloat64(), 5, 100),
			fineAOD:   math.Max(0.01, 0.12+0.02*(gradient-8)+0.02*rng.NormFloat64()),
			coarseAOD: math.Max(0.01, 0.10-0.04*winter+0.02*rng.NormFloat64()),
		})
	}
	return g, nil
}

// Months returns the number of calendar months covered.
func (g *Generator) Months() int { return len(g.months) }

// WriteSoundings writes the IGRA v2 sounding file.
func (g *Generator) WriteSoundings(w io.Writer) error {
	enc := domain.FixedWidth{Sentinels: domain.DefaultSoundingSentinels}
	bw := bufio.NewWriter(w)
	rng := g.rng(1)

	for _, mc := range g.months {
		for k := range g.opts.SoundingsPerMonth {
			day := 1 + k*28/g.opts.SoundingsPerMonth
			hour := 12 * (k % 2)
			levels := soundingLevels(mc, rng)

			lines := make([]string, 0, len(levels)+1)
			lines = append(lines, enc.EncodeHeader(domain.Header{
				Station:    g.station,
				Year:       mc.month.Year,
				Month:      int(mc.month.Month),
				Day:        day,
				Hour:       hour,
				LevelCount: len(levels),
			}))
			for _, l := range levels {
				lines = append(lines, enc.EncodeLevel(l))
			}
			if _, err := bw.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func soundingLevels(mc monthClimate, rng *rand.Rand) []domain.LevelLine {
	gradient := mc.gradient + 1.5*rng.NormFloat64()
	t925 := 12 - 10*mc.winter + 2*rng.NormFloat64()
	theta700 := domain.PotentialTemperature(t925, domain.Level925) + gradient
	t700 := theta700*math.Pow(domain.Level700/domain.ReferencePressureHPa, domain.Kappa) - 273.15
	t850 := (t925 + t700) / 2
	rh := clamp(mc.rh850+4*rng.NormFloat64(), 1, 100)

	return []domain.LevelLine{
		{Type: 2, PressurePa: f(100000), HeightM: f(110), TempC: f(t925 + 5), RHPct: f(clamp(rh-10, 1, 100))},
		{Type: 1, PressurePa: f(92500), HeightM: f(750 + 20*rng.NormFloat64()), TempC: f(t925), RHPct: f(clamp(rh-5, 1, 100))},
		{Type: 1, PressurePa: f(85000), HeightM: f(1450 + 20*rng.NormFloat64()), TempC: f(t850), RHPct: f(rh)},
		{Type: 1, PressurePa: f(70000), HeightM: f(3050 + 25*rng.NormFloat64()), TempC: f(t700), RHPct: f(clamp(rh-20, 1, 100))},
		{Type: 1, PressurePa: f(50000), HeightM: f(5600), TempC: f(t700 - 15), RHPct: nil},
	}
}

// aeronetPreamble is the six metadata lines ahead of the column header.
var aeronetPreamble = []string{
	"AERONET Version 3;",
	"Site: Synthetic_Station",
	"Version 3: Level 2.0 Quality Assured Data",
	"Generated by genmock; values are synthetic.",
	"Contact: none",
	"Monthly averages",
}

// WriteOpticalDepth writes the direct-sun monthly AOD file. Every
// seventeenth month carries the missing code for AOD at 500 nm, and an
// annual summary row follows the monthly rows.
func (g *Generator) WriteOpticalDepth(w io.Writer) error {
	rows := [][]string{{domain.ColMonth, domain.ColAOD500, domain.ColAOD870, domain.ColAngstrom, domain.ColNumDays}}
	for i, mc := range g.months {
		total := mc.fineAOD + mc.coarseAOD
		aod500 := aeronetFloat(total)
		if i%17 == 9 {
			aod500 = domain.DefaultAerosolSentinel
		}
		rows = append(rows, []string{
			strings.ToUpper(mc.month.Label()),
			aod500,
			aeronetFloat(mc.coarseAOD + 0.3*mc.fineAOD),
			aeronetFloat(0.4 + 1.4*mc.fineAOD/total),
			strconv.Itoa(10 + i%15),
		})
	}
	rows = append(rows, []string{"YEAR", aeronetFloat(0.25), aeronetFloat(0.12), aeronetFloat(1.1), "200"})
	return writeAeronet(w, rows)
}

// WriteSpectralDeconvolution writes the SDA monthly file. Every thirteenth
// month is absent.
func (g *Generator) WriteSpectralDeconvolution(w io.Writer) error {
	rows := [][]string{{domain.ColMonth, domain.ColTotalAOD, domain.ColFineAOD, domain.ColCoarseAOD, domain.ColFineModeFraction}}
	for i, mc := range g.months {
		if i%13 == 6 {
			continue
		}
		total := mc.fineAOD + mc.coarseAOD
		rows = append(rows, []string{
			mc.month.Label(),
			aeronetFloat(total),
			aeronetFloat(mc.fineAOD),
			aeronetFloat(mc.coarseAOD),
			aeronetFloat(mc.fineAOD / total),
		})
	}
	return writeAeronet(w, rows)
}

func writeAeronet(w io.Writer, rows [][]string) error {
	bw := bufio.NewWriter(w)
	for _, line := range aeronetPreamble {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// rng returns an independent stream per file so that changing one file's
// layout leaves the others unchanged.
func (g *Generator) rng(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(g.opts.Seed, stream))
}

func next(m domain.Month) domain.Month {
	return domain.MonthOf(m.Time().AddDate(0, 1, 0))
}

func aeronetFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func f(v float64) *float64 { return &v }
