package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/near-space-etl/internal/adapter/archive"
	"github.com/couchcryptid/near-space-etl/internal/adapter/chart"
	"github.com/couchcryptid/near-space-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/near-space-etl/internal/report"
	"github.com/couchcryptid/near-space-etl/internal/synth"
)

// inputs writes synthetic input files and returns the flag arguments for them.
func inputs(t *testing.T) (args []string, outDir string) {
	t.Helper()
	dir := t.TempDir()
	g, err := synth.New(synth.DefaultOptions())
	require.NoError(t, err)

	igra := filepath.Join(dir, "igra.txt.zst")
	aod := filepath.Join(dir, "aod.lev20")
	sda := filepath.Join(dir, "sda.ONEILL_lev20")
	for path, write := range map[string]func(io.Writer) error{
		igra: g.WriteSoundings,
		aod:  g.WriteOpticalDepth,
		sda:  g.WriteSpectralDeconvolution,
	} {
		w, err := archive.Create(path)
		require.NoError(t, err)
		require.NoError(t, write(w))
		require.NoError(t, w.Close())
	}

	outDir = filepath.Join(dir, "outputs")
	t.Setenv("LOG_LEVEL", "error")
	return []string{"--igra", igra, "--aod", aod, "--sda", sda, "--output-dir", outDir}, outDir
}

func runCLI(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

func TestCLI_ProcessThenAnalyze(t *testing.T) {
	args, out := inputs(t)

	require.NoError(t, runCLI(append([]string{"process"}, args...)...))
	assert.True(t, exists(t, filepath.Join(out, report.MonthlyCombo+csvfile.Ext)))
	assert.False(t, exists(t, filepath.Join(out, report.CorrelationAnalysis+csvfile.Ext)))

	require.NoError(t, runCLI("analyze", "--output-dir", out))
	for _, name := range []string{report.CorrelationAnalysis, report.ScientificInsights, report.SummaryStatistics} {
		assert.True(t, exists(t, filepath.Join(out, name+csvfile.Ext)), name)
	}
}

func TestCLI_RunWithOptionalSinks(t *testing.T) {
	args, out := inputs(t)
	t.Setenv("PARQUET_ENABLED", "true")
	t.Setenv("CHART_ENABLED", "true")

	require.NoError(t, runCLI(args...))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 13)
	assert.True(t, exists(t, filepath.Join(out, chart.FileName)))
	assert.True(t, exists(t, filepath.Join(out, report.MonthlyCombo+".parquet")))
}

func TestCLI_MissingInputWritesNothing(t *testing.T) {
	args, out := inputs(t)
	args[1] = filepath.Join(t.TempDir(), "missing.txt")

	err := runCLI(append([]string{"run"}, args...)...)
	require.Error(t, err)
	assert.False(t, exists(t, out))
}

func TestCLI_AnalyzeMissingCombo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	err := runCLI("analyze", "--combo", filepath.Join(t.TempDir(), "none.csv"))
	require.Error(t, err)
}

func TestCLI_RejectsArgs(t *testing.T) {
	require.Error(t, runCLI("process", "extra"))
}
