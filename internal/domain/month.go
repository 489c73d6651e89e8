package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month key, rendered as "2006-01".
type Month struct {
	Year  int
	Month time.Month
}

// monthTokenRe matches AERONET month tokens such as "2010-JAN" or "2010-Jan".
var monthTokenRe = regexp.MustCompile(`^(\d{4})-([A-Za-z]{3})$`)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// ParseMonthToken parses an AERONET "YYYY-Mon" token, case-insensitively.
// ok is false for anything that is not a recognizable month token.
func ParseMonthToken(s string) (Month, bool) {
	m := monthTokenRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Month{}, false
	}
	mon, ok := monthAbbrev[strings.ToLower(m[2])]
	if !ok {
		return Month{}, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Month{}, false
	}
	return Month{Year: year, Month: mon}, true
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label renders the month as "2006-Jan".
func (m Month) Label() string {
	return m.Time().Format("2006-Jan")
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Compare returns -1, 0 or +1, for use with slices.SortFunc.
func (m Month) Compare(o Month) int {
	switch {
	case m.Before(o):
		return -1
	case o.Before(m):
		return 1
	default:
		return 0
	}
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
