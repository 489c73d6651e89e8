package chart

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/near-space-etl/internal/domain"
)

func fp(v float64) *float64 { return &v }

func month(m time.Month, stability float64, fine *float64) domain.MergedMonth {
	return domain.MergedMonth{
		Month:                 domain.Month{Year: 2011, Month: m},
		SoundingStats:         domain.SoundingStats{GradientMedian: fp(stability)},
		SpectralDeconvolution: domain.SpectralDeconvolution{FineAOD: fine},
	}
}

func TestPoints(t *testing.T) {
	pts := Points([]domain.MergedMonth{
		month(time.January, 14, fp(0.3)),
		month(time.February, 13, fp(0.25)),
		month(time.July, 7, fp(0.1)),
		month(time.August, 8, nil),
	})
	require.Len(t, pts, 2)
	assert.Len(t, pts[domain.SeasonDJF], 2)
	assert.Len(t, pts[domain.SeasonJJA], 1)
	assert.Equal(t, 7.0, pts[domain.SeasonJJA][0].X)
}

func TestFitLine(t *testing.T) {
	fit, ok := FitLine([]float64{1, 2, 3}, []float64{3, 5, 7})
	require.True(t, ok)
	assert.InDelta(t, 3.0, fit[0].Y, 1e-12)
	assert.InDelta(t, 7.0, fit[1].Y, 1e-12)

	_, ok = FitLine([]float64{1}, []float64{1})
	assert.False(t, ok)
	_, ok = FitLine([]float64{2, 2}, []float64{1, 3})
	assert.False(t, ok)
}

func TestWriter_LoadMerged(t *testing.T) {
	w := NewWriter(t.TempDir(), slog.Default())
	require.NoError(t, w.LoadMerged(context.Background(), []domain.MergedMonth{
		month(time.January, 14, fp(0.3)),
		month(time.April, 11, fp(0.2)),
		month(time.July, 7, fp(0.1)),
	}))

	b, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), b[:8])
	assert.Equal(t, "chart", w.Name())
}

func TestWriter_LoadMerged_NoPoints(t *testing.T) {
	w := NewWriter(t.TempDir(), slog.Default())
	require.NoError(t, w.LoadMerged(context.Background(), []domain.MergedMonth{month(time.May, 10, nil)}))

	_, err := os.Stat(w.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
