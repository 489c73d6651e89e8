package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthToken(t *testing.T) {
	tests := []struct {
		token    string
		expected Month
		ok       bool
	}{
		{"2010-JAN", Month{2010, time.January}, true},
		{"2010-Jan", Month{2010, time.January}, true},
		{" 2019-dec ", Month{2019, time.December}, true},
		{"2010-FOO", Month{}, false},
		{"2010-01", Month{}, false},
		{"YEAR", Month{}, false},
		{"", Month{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseMonthToken(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMonth_Formatting(t *testing.T) {
	m := Month{Year: 2011, Month: time.March}
	assert.Equal(t, "2011-03", m.String())
	assert.Equal(t, "2011-Mar", m.Label())

	data, err := json.Marshal(struct {
		Month Month `json:"month"`
	}{m})
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2011-03"}`, string(data))

	var back Month
	require.NoError(t, back.UnmarshalText([]byte("2011-03")))
	assert.Equal(t, m, back)
}

func TestMonth_Compare(t *testing.T) {
	a := Month{2010, time.December}
	b := Month{2011, time.January}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestParseMonth_Invalid(t *testing.T) {
	_, err := ParseMonth("2010/01")
	assert.Error(t, err)
}

func TestSeasonLabel(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2011, 12, 15, 0, 0, 0, 0, time.UTC), "2012-DJF"},
		{time.Date(2012, 1, 15, 0, 0, 0, 0, time.UTC), "2012-DJF"},
		{time.Date(2012, 2, 29, 0, 0, 0, 0, time.UTC), "2012-DJF"},
		{time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC), "2012-MAM"},
		{time.Date(2012, 7, 4, 0, 0, 0, 0, time.UTC), "2012-JJA"},
		{time.Date(2012, 11, 30, 0, 0, 0, 0, time.UTC), "2012-SON"},
	}

	for _, tt := range tests {
		t.Run(tt.expected+"/"+tt.date.Format("Jan"), func(t *testing.T) {
			assert.Equal(t, tt.expected, SeasonLabel(tt.date))
		})
	}
}

func TestMeteorologicalSeason_DecemberIsWinter(t *testing.T) {
	assert.Equal(t, SeasonDJF, MeteorologicalSeason(time.December))
	assert.Equal(t, SeasonSON, MeteorologicalSeason(time.September))
}
