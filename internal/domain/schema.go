package domain

import (
	"slices"
	"strconv"
	"strings"
)

// FieldSpec locates one fixed-width field: bytes [Start, End) of a line.
// Decoded integers are divided by Scale when Scale is non-zero.
type FieldSpec struct {
	Name  string
	Start int
	End   int
	Scale float64
}

// Schema is an ordered table of fixed-width fields.
type Schema []FieldSpec

// Header schema indices.
const (
	HdrStation = iota
	HdrYear
	HdrMonth
	HdrDay
	HdrHour
	HdrLevels
)

// Level schema indices.
const (
	LvlType = iota
	LvlPressure
	LvlHeight
	LvlTemp
	LvlRH
)

// HeaderSchema describes an IGRA v2 sounding header line.
var HeaderSchema = Schema{
	HdrStation: {Name: "station", Start: 1, End: 12},
	HdrYear:    {Name: "year", Start: 13, End: 17},
	HdrMonth:   {Name: "month", Start: 18, End: 20},
	HdrDay:     {Name: "day", Start: 21, End: 23},
	HdrHour:    {Name: "hour", Start: 24, End: 26},
	HdrLevels:  {Name: "num_levels", Start: 32, End: 36},
}

// LevelSchema describes an IGRA v2 data level line.
var LevelSchema = Schema{
	LvlType:     {Name: "lvltyp1", Start: 0, End: 1},
	LvlPressure: {Name: "press", Start: 9, End: 15},
	LvlHeight:   {Name: "gph", Start: 16, End: 21},
	LvlTemp:     {Name: "temp", Start: 22, End: 27, Scale: 10},
	LvlRH:       {Name: "rh", Start: 28, End: 33, Scale: 10},
}

// DefaultSoundingSentinels are the IGRA missing (-9999) and QA-removed (-8888) codes.
var DefaultSoundingSentinels = []string{"-9999", "-8888"}

// FixedWidth decodes fixed-width fields, treating blanks and sentinel codes as absent.
type FixedWidth struct {
	Sentinels []string
}

// Text returns the trimmed raw text of a field. Fields past the end of a
// short line are empty.
func (d FixedWidth) Text(line string, f FieldSpec) string {
	if f.Start >= len(line) {
		return ""
	}
	end := min(f.End, len(line))
	return strings.TrimSpace(line[f.Start:end])
}

// Int decodes an integer field. ok is false for blank, sentinel or
// non-numeric text.
func (d FixedWidth) Int(line string, f FieldSpec) (int, bool) {
	s := d.Text(line, f)
	if s == "" || slices.Contains(d.Sentinels, s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float decodes an integer field and applies the field scale.
func (d FixedWidth) Float(line string, f FieldSpec) (float64, bool) {
	v, ok := d.Int(line, f)
	if !ok {
		return 0, false
	}
	if f.Scale == 0 {
		return float64(v), true
	}
	return float64(v) / f.Scale, true
}

// Decode decodes every numeric field of the schema. The result is aligned
// with the schema; absent fields are nil.
func (d FixedWidth) Decode(line string, s Schema) []*float64 {
	out := make([]*float64, len(s))
	for i, f := range s {
		if v, ok := d.Float(line, f); ok {
			out[i] = ptr(v)
		}
	}
	return out
}

// Encode lays values out right-aligned in their fields. Nil values are
// written as the first sentinel. It is the inverse of Decode and is used to
// build fixtures.
func (d FixedWidth) Encode(s Schema, values []*float64) []byte {
	width := 0
	for _, f := range s {
		width = max(width, f.End)
	}
	buf := []byte(strings.Repeat(" ", width))
	for i, f := range s {
		if i >= len(values) {
			break
		}
		var text string
		switch {
		case values[i] == nil && len(d.Sentinels) > 0:
			text = d.Sentinels[0]
		case values[i] == nil:
			continue
		case f.Scale != 0:
			text = strconv.Itoa(int(roundHalfEven(*values[i] * f.Scale)))
		default:
			text = strconv.Itoa(int(roundHalfEven(*values[i])))
		}
		size := f.End - f.Start
		if len(text) > size {
			text = text[len(text)-size:]
		}
		copy(buf[f.End-len(text):f.End], text)
	}
	return buf
}
