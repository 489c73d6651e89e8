package domain

import (
	"fmt"
	"time"
)

// Meteorological season codes.
const (
	SeasonDJF = "DJF"
	SeasonMAM = "MAM"
	SeasonJJA = "JJA"
	SeasonSON = "SON"
)

// MeteorologicalSeason maps a month of year to DJF, MAM, JJA or SON.
func MeteorologicalSeason(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return SeasonDJF
	case time.March, time.April, time.May:
		return SeasonMAM
	case time.June, time.July, time.August:
		return SeasonJJA
	default:
		return SeasonSON
	}
}

// SeasonLabel returns the season-year label of t, e.g. "2011-DJF".
// December is attributed to the following year's winter.
func SeasonLabel(t time.Time) string {
	year := t.Year()
	if t.Month() == time.December {
		year++
	}
	return fmt.Sprintf("%d-%s", year, MeteorologicalSeason(t.Month()))
}
