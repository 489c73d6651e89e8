package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	assert.InDelta(t, 2.5, *Median(values), 1e-12)
	assert.InDelta(t, 1.75, *Quantile(values, 0.25), 1e-12)
	assert.InDelta(t, 3.25, *Quantile(values, 0.75), 1e-12)
	assert.InDelta(t, 1.5, *InterquartileRange(values), 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "input must not be reordered")

	assert.Nil(t, Median(nil))
	assert.Nil(t, InterquartileRange(nil))
	assert.Equal(t, 0.0, *InterquartileRange([]float64{7}))
}

func TestPresent(t *testing.T) {
	got := Present(ptr(1.0), nil, ptr(math.NaN()), ptr(2.0))
	assert.Equal(t, []float64{1, 2}, got)
}

func sounding(at time.Time, gradient float64, rh, diff *float64) Sounding {
	return Sounding{Station: testStation, Time: at, InversionGradient: gradient, RH850: rh, HeightDiff: diff}
}

func TestMonthlyMetrics(t *testing.T) {
	soundings := []Sounding{
		sounding(time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC), 4, ptr(50.0), ptr(2200.0)),
		sounding(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), 1, ptr(80.0), nil),
		sounding(time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC), 2, nil, nil),
		sounding(time.Date(2015, 1, 3, 12, 0, 0, 0, time.UTC), 3, ptr(60.0), nil),
		sounding(time.Date(2015, 1, 4, 0, 0, 0, 0, time.UTC), 4, ptr(70.0), nil),
	}

	got := MonthlyMetrics(soundings)

	want := []MonthlySoundingMetric{
		{Month: Month{2015, time.January}, SoundingStats: SoundingStats{
			GradientMedian: ptr(2.5),
			GradientIQR:    ptr(1.5),
			RH850Median:    ptr(70.0),
			Soundings:      4,
		}},
		{Month: Month{2015, time.February}, SoundingStats: SoundingStats{
			GradientMedian:   ptr(4.0),
			GradientIQR:      ptr(0.0),
			RH850Median:      ptr(50.0),
			HeightDiffMedian: ptr(2200.0),
			Soundings:        1,
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MonthlyMetrics mismatch (-want +got):\n%s", diff)
	}
}

func TestSeasonalMetrics_DecemberJoinsNextWinter(t *testing.T) {
	soundings := []Sounding{
		sounding(time.Date(2010, 12, 15, 0, 0, 0, 0, time.UTC), 1, nil, nil),
		sounding(time.Date(2011, 1, 15, 0, 0, 0, 0, time.UTC), 3, nil, nil),
		sounding(time.Date(2011, 2, 15, 0, 0, 0, 0, time.UTC), 5, nil, nil),
		sounding(time.Date(2011, 12, 15, 0, 0, 0, 0, time.UTC), 9, nil, nil),
		sounding(time.Date(2011, 7, 1, 0, 0, 0, 0, time.UTC), 6, nil, nil),
	}

	got := SeasonalMetrics(soundings)
	require.Len(t, got, 3)

	assert.Equal(t, "2011-DJF", got[0].Season)
	assert.Equal(t, 3, got[0].Soundings)
	assert.Equal(t, 3.0, *got[0].GradientMedian)
	assert.Nil(t, got[0].RH850Median)

	assert.Equal(t, "2011-JJA", got[1].Season)
	assert.Equal(t, "2012-DJF", got[2].Season)
	assert.Equal(t, 1, got[2].Soundings)
}

func TestMonthlyMetrics_Empty(t *testing.T) {
	assert.Empty(t, MonthlyMetrics(nil))
	assert.Empty(t, SeasonalMetrics(nil))
}
