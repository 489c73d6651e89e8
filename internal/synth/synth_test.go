package synth

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

func generate(t *testing.T, opts Options) (igra, aod, sda []byte) {
	t.Helper()
	g, err := New(opts)
	require.NoError(t, err)

	var a, b, c bytes.Buffer
	require.NoError(t, g.WriteSoundings(&a))
	require.NoError(t, g.WriteOpticalDepth(&b))
	require.NoError(t, g.WriteSpectralDeconvolution(&c))
	return a.Bytes(), b.Bytes(), c.Bytes()
}

func TestGenerator_Deterministic(t *testing.T) {
	a1, b1, c1 := generate(t, DefaultOptions())
	a2, b2, c2 := generate(t, DefaultOptions())
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, c1, c2)

	other := DefaultOptions()
	other.Seed = 99
	a3, _, _ := generate(t, other)
	assert.NotEqual(t, a1, a3)
}

func TestGenerator_SoundingsParse(t *testing.T) {
	opts := DefaultOptions()
	igra, _, _ := generate(t, opts)

	soundings, stats, err := domain.ParseSoundings(bytes.NewReader(igra))
	require.NoError(t, err)

	g, err := New(opts)
	require.NoError(t, err)
	want := g.Months() * opts.SoundingsPerMonth
	assert.Len(t, soundings, want)
	assert.Equal(t, want, stats.Headers)
	assert.Zero(t, stats.MalformedHeaders)
	assert.Zero(t, stats.TruncatedBlocks)
	assert.Zero(t, stats.RejectedSoundings)

	for _, s := range soundings {
		require.NotNil(t, s.RH850)
		assert.True(t, *s.RH850 >= 1 && *s.RH850 <= 100)
	}
}

func TestGenerator_WinterMoreStable(t *testing.T) {
	igra, _, _ := generate(t, DefaultOptions())
	soundings, _, err := domain.ParseSoundings(bytes.NewReader(igra))
	require.NoError(t, err)

	var winter, summer []float64
	for _, s := range soundings {
		switch s.Time.Month() {
		case time.January:
			winter = append(winter, s.InversionGradient)
		case time.July:
			summer = append(summer, s.InversionGradient)
		}
	}
	require.NotNil(t, domain.Median(winter))
	require.NotNil(t, domain.Median(summer))
	assert.Greater(t, *domain.Median(winter), *domain.Median(summer))
}

func TestGenerator_Aerosol(t *testing.T) {
	opts := DefaultOptions()
	_, aod, sda := generate(t, opts)
	g, err := New(opts)
	require.NoError(t, err)

	od, odStats, err := domain.ReadOpticalDepth(bytes.NewReader(aod), domain.DefaultAerosolReadOptions())
	require.NoError(t, err)
	assert.Len(t, od, g.Months())
	assert.Equal(t, 1, odStats.DroppedNonMonth)

	var missing int
	for _, m := range od {
		if m.AOD500 == nil {
			missing++
		}
	}
	assert.Positive(t, missing)

	spectral, _, err := domain.ReadSpectralDeconvolution(bytes.NewReader(sda), domain.DefaultAerosolReadOptions())
	require.NoError(t, err)
	assert.Less(t, len(spectral), g.Months())

	merged := domain.MergeAerosol(od, spectral)
	assert.Len(t, merged, len(spectral))
}

func TestNew_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.End = domain.Month{Year: 2000, Month: 1}
	_, err := New(opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.SoundingsPerMonth = 0
	_, err = New(opts)
	assert.Error(t, err)
}
