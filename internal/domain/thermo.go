package domain

import "math"

const (
	// Kappa is R/cp for dry air.
	Kappa = 0.2854
	// ReferencePressureHPa is the potential temperature reference level.
	ReferencePressureHPa = 1000.0
	celsiusToKelvin      = 273.15
)

// Standard levels used by the stability metric, keyed by rounded hPa.
const (
	Level925 = 925
	Level850 = 850
	Level700 = 700
)

// PotentialTemperature returns θ in kelvin for a temperature in °C at a
// pressure in hPa. Callers only pass present, positive pressures.
func PotentialTemperature(tempC, pressureHPa float64) float64 {
	return (tempC + celsiusToKelvin) * math.Pow(ReferencePressureHPa/pressureHPa, Kappa)
}

// levelTheta returns θ for a level, or nil when the level or its temperature is absent.
func levelTheta(l *Level) *float64 {
	if l == nil || l.TempC == nil {
		return nil
	}
	return ptr(PotentialTemperature(*l.TempC, l.PressureHPa))
}

// InversionGradient returns θ(700) − θ(925). ok is false when either
// temperature is absent.
func InversionGradient(l925, l700 Level) (float64, bool) {
	theta925 := levelTheta(&l925)
	theta700 := levelTheta(&l700)
	if theta925 == nil || theta700 == nil {
		return 0, false
	}
	return *theta700 - *theta925, true
}

// DeriveSounding computes the per-sounding quantities from its levels. ok is
// false when the 925 or 700 hPa temperature is missing.
func DeriveSounding(h Header, levels map[int]Level) (Sounding, bool) {
	l925 := lookup(levels, Level925)
	l700 := lookup(levels, Level700)
	l850 := lookup(levels, Level850)
	if l925 == nil || l700 == nil {
		return Sounding{}, false
	}

	gradient, ok := InversionGradient(*l925, *l700)
	if !ok {
		return Sounding{}, false
	}

	snd := Sounding{
		Station:           h.Station,
		Time:              h.Time(),
		InversionGradient: gradient,
		Theta850:          levelTheta(l850),
		Height925:         l925.HeightM,
	}
	if l850 != nil {
		snd.RH850 = l850.RHPct
	}
	if l700.HeightM != nil && l925.HeightM != nil {
		snd.HeightDiff = ptr(*l700.HeightM - *l925.HeightM)
	}
	return snd, true
}

func lookup(levels map[int]Level, key int) *Level {
	l, ok := levels[key]
	if !ok {
		return nil
	}
	return &l
}
