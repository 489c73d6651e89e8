package domain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// headerMarker starts every IGRA sounding header line.
const headerMarker = "#"

// ParseStats counts data-quality events seen while scanning a sounding file.
type ParseStats struct {
	Lines             int
	Headers           int
	OrphanLines       int
	MalformedHeaders  int
	TruncatedBlocks   int
	DroppedLevels     int
	RejectedSoundings int
	Soundings         int
}

// SoundingScanner reads soundings lazily from an IGRA v2 text stream. It is a
// single forward pass over its reader, in the manner of bufio.Scanner:
//
//	s := NewSoundingScanner(r)
//	for s.Scan() {
//		snd := s.Sounding()
//	}
//	if err := s.Err(); err != nil { ... }
type SoundingScanner struct {
	sc      *bufio.Scanner
	decoder FixedWidth
	cur     Sounding
	stats   ParseStats
	err     error
	done    bool
}

// NewSoundingScanner returns a scanner over r. With no sentinels given the
// IGRA defaults are used.
func NewSoundingScanner(r io.Reader, sentinels ...string) *SoundingScanner {
	if len(sentinels) == 0 {
		sentinels = DefaultSoundingSentinels
	}
	return &SoundingScanner{
		sc:      bufio.NewScanner(r),
		decoder: FixedWidth{Sentinels: sentinels},
	}
}

// Scan advances to the next retained sounding. It returns false at end of
// input or on a read error.
func (s *SoundingScanner) Scan() bool {
	for !s.done {
		line, ok := s.readLine()
		if !ok {
			return false
		}
		if !strings.HasPrefix(line, headerMarker) {
			s.stats.OrphanLines++
			continue
		}
		s.stats.Headers++

		header, valid := s.decodeHeader(line)
		levels := s.readLevels(header.LevelCount, valid)
		if !valid {
			s.stats.MalformedHeaders++
			continue
		}

		snd, ok := DeriveSounding(header, levels)
		if !ok {
			s.stats.RejectedSoundings++
			continue
		}
		s.stats.Soundings++
		s.cur = snd
		return true
	}
	return false
}

// Sounding returns the sounding produced by the last successful Scan.
func (s *SoundingScanner) Sounding() Sounding { return s.cur }

// Err returns the first non-EOF read error.
func (s *SoundingScanner) Err() error { return s.err }

// Stats returns the counters accumulated so far.
func (s *SoundingScanner) Stats() ParseStats { return s.stats }

// Line returns the number of lines consumed so far.
func (s *SoundingScanner) Line() int { return s.stats.Lines }

func (s *SoundingScanner) readLine() (string, bool) {
	if s.done {
		return "", false
	}
	if !s.sc.Scan() {
		s.done = true
		if err := s.sc.Err(); err != nil {
			s.err = fmt.Errorf("read sounding line %d: %w", s.stats.Lines+1, err)
		}
		return "", false
	}
	s.stats.Lines++
	return strings.TrimRight(s.sc.Text(), "\r"), true
}

// decodeHeader extracts header fields. valid is false when year, month or day
// is absent or out of range; LevelCount is still reported so the caller can
// keep the cursor aligned.
func (s *SoundingScanner) decodeHeader(line string) (Header, bool) {
	d := s.decoder
	h := Header{Station: d.Text(line, HeaderSchema[HdrStation])}
	if n, ok := d.Int(line, HeaderSchema[HdrLevels]); ok && n > 0 {
		h.LevelCount = n
	}

	year, okY := d.Int(line, HeaderSchema[HdrYear])
	month, okM := d.Int(line, HeaderSchema[HdrMonth])
	day, okD := d.Int(line, HeaderSchema[HdrDay])
	if !okY || !okM || !okD || year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return h, false
	}
	h.Year, h.Month, h.Day = year, month, day

	if hour, ok := d.Int(line, HeaderSchema[HdrHour]); ok && hour >= 0 && hour <= 23 {
		h.Hour = hour
	}
	return h, true
}

// readLevels consumes exactly n lines, or fewer if the input ends. Lines are
// only decoded when keep is set.
func (s *SoundingScanner) readLevels(n int, keep bool) map[int]Level {
	levels := make(map[int]Level)
	for i := 0; i < n; i++ {
		line, ok := s.readLine()
		if !ok {
			s.stats.TruncatedBlocks++
			break
		}
		if !keep {
			continue
		}
		lvl, ok := s.decodeLevel(line)
		if !ok {
			s.stats.DroppedLevels++
			continue
		}
		levels[lvl.Key] = lvl
	}
	return levels
}

func (s *SoundingScanner) decodeLevel(line string) (Level, bool) {
	vals := s.decoder.Decode(line, LevelSchema)
	if vals[LvlType] == nil || vals[LvlPressure] == nil {
		return Level{}, false
	}
	hpa := *vals[LvlPressure] / 100
	return Level{
		Key:         int(roundHalfEven(hpa)),
		Type:        int(*vals[LvlType]),
		PressureHPa: hpa,
		HeightM:     vals[LvlHeight],
		TempC:       vals[LvlTemp],
		RHPct:       vals[LvlRH],
	}, true
}

// ParseSoundings scans r to the end and returns every retained sounding.
func ParseSoundings(r io.Reader, sentinels ...string) ([]Sounding, ParseStats, error) {
	s := NewSoundingScanner(r, sentinels...)
	var out []Sounding
	for s.Scan() {
		out = append(out, s.Sounding())
	}
	return out, s.Stats(), s.Err()
}

// LevelLine is the raw content of one level line, used to build fixtures.
type LevelLine struct {
	Type       int
	PressurePa *float64
	HeightM    *float64
	TempC      *float64
	RHPct      *float64
}

// EncodeHeader renders h as an IGRA v2 header line.
func (d FixedWidth) EncodeHeader(h Header) string {
	vals := make([]*float64, len(HeaderSchema))
	vals[HdrYear] = ptr(float64(h.Year))
	vals[HdrMonth] = ptr(float64(h.Month))
	vals[HdrDay] = ptr(float64(h.Day))
	vals[HdrHour] = ptr(float64(h.Hour))
	vals[HdrLevels] = ptr(float64(h.LevelCount))
	buf := d.Encode(HeaderSchema, vals)
	station := HeaderSchema[HdrStation]
	copy(buf[station.Start:station.End], fmt.Sprintf("%-*s", station.End-station.Start, h.Station))
	copy(buf, headerMarker)
	return string(buf)
}

// EncodeLevel renders l as an IGRA v2 level line.
func (d FixedWidth) EncodeLevel(l LevelLine) string {
	vals := make([]*float64, len(LevelSchema))
	vals[LvlType] = ptr(float64(l.Type))
	vals[LvlPressure] = l.PressurePa
	vals[LvlHeight] = l.HeightM
	vals[LvlTemp] = l.TempC
	vals[LvlRH] = l.RHPct
	return string(d.Encode(LevelSchema, vals))
}

func roundHalfEven(v float64) float64 {
	return math.RoundToEven(v)
}
