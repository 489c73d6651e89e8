// Command genmock writes deterministic synthetic IGRA v2 sounding and AERONET
// monthly AOD/SDA files for demos and smoke tests. It parses its own output
// with the domain package to report what a pipeline run will see.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out-dir data/mock \
//	  -start 2008-01 -end 2012-12 \
//	  -compress gz
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/couchcryptid/near-space-etl/internal/adapter/archive"
	"github.com/couchcryptid/near-space-etl/internal/domain"
	"github.com/couchcryptid/near-space-etl/internal/synth"
)

// Output file names, matching the layout of the real downloads.
const (
	igraName = "USM00072403-data.txt"
	aodName  = "synthetic.lev20"
	sdaName  = "synthetic.ONEILL_lev20"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := synth.DefaultOptions()
	outDir := flag.String("out-dir", "data/mock", "directory for the generated files")
	start := flag.String("start", defaults.Start.String(), "first month (YYYY-MM)")
	end := flag.String("end", defaults.End.String(), "last month (YYYY-MM)")
	perMonth := flag.Int("per-month", defaults.SoundingsPerMonth, "soundings per month")
	seed := flag.Uint64("seed", defaults.Seed, "random seed")
	station := flag.String("station", defaults.Station, "station identifier")
	compress := flag.String("compress", "", "compress the sounding file: gz or zst")
	flag.Parse()

	opts := synth.Options{Station: *station, SoundingsPerMonth: *perMonth, Seed: *seed}
	var err error
	if opts.Start, err = domain.ParseMonth(*start); err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if opts.End, err = domain.ParseMonth(*end); err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	igraPath := filepath.Join(*outDir, igraName)
	switch *compress {
	case "":
	case "gz", "zst":
		igraPath += "." + *compress
	default:
		return fmt.Errorf("invalid -compress %q: want gz or zst", *compress)
	}

	g, err := synth.New(opts)
	if err != nil {
		return err
	}

	files := []struct {
		path  string
		write func(io.Writer) error
	}{
		{igraPath, g.WriteSoundings},
		{filepath.Join(*outDir, aodName), g.WriteOpticalDepth},
		{filepath.Join(*outDir, sdaName), g.WriteSpectralDeconvolution},
	}
	for _, f := range files {
		if err := writeFile(f.path, f.write); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		log.Printf("wrote %s", f.path)
	}

	return printStats(files[0].path, files[1].path, files[2].path, opts)
}

func writeFile(path string, write func(io.Writer) error) error {
	w, err := archive.Create(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// printStats reads the generated files back and summarizes them.
func printStats(igraPath, aodPath, sdaPath string, opts synth.Options) error {
	rc, err := archive.Open(igraPath)
	if err != nil {
		return err
	}
	defer rc.Close()
	soundings, stats, err := domain.ParseSoundings(rc)
	if err != nil {
		return err
	}

	aod, err := readAerosol(aodPath, domain.ReadOpticalDepth)
	if err != nil {
		return err
	}
	sda, err := readAerosol(sdaPath, domain.ReadSpectralDeconvolution)
	if err != nil {
		return err
	}

	monthly := domain.MonthlyMetrics(soundings)
	merged := domain.MergeMonthly(monthly, domain.MergeAerosol(aod, sda), domain.DefaultMergeFloor)

	fmt.Println()
	fmt.Printf("=== Synthetic dataset %s to %s (seed %d) ===\n", opts.Start, opts.End, opts.Seed)
	fmt.Printf("  %-28s %d\n", "sounding lines", stats.Lines)
	fmt.Printf("  %-28s %d\n", "soundings", len(soundings))
	fmt.Printf("  %-28s %d\n", "sounding months", len(monthly))
	fmt.Printf("  %-28s %d\n", "AOD months", len(aod))
	fmt.Printf("  %-28s %d\n", "SDA months", len(sda))
	fmt.Printf("  %-28s %d\n", "merged months from "+domain.DefaultMergeFloor.String(), len(merged))
	return nil
}

func readAerosol[T any](path string, read func(io.Reader, domain.AerosolReadOptions) ([]T, domain.AerosolStats, error)) ([]T, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	rows, _, err := read(rc, domain.DefaultAerosolReadOptions())
	return rows, err
}
