package analysis

// Rule pairs a predicate with the label it assigns.
type Rule[T any] struct {
	Label string
	Match func(T) bool
}

// Classify returns the label of the first matching rule, or fallback when
// none match.
func Classify[T any](rules []Rule[T], v T, fallback string) string {
	for _, r := range rules {
		if r.Match(v) {
			return r.Label
		}
	}
	return fallback
}

// Dispersion categories.
const (
	DispersionExcellent = "Excellent"
	DispersionGood      = "Good"
	DispersionModerate  = "Moderate"
	DispersionPoor      = "Poor"
)

// DispersionRules orders the stability bands; Poor is the fallback.
func DispersionRules(t Thresholds) []Rule[float64] {
	return []Rule[float64]{
		{Label: DispersionExcellent, Match: func(s float64) bool { return s < t.ExcellentBelowK }},
		{Label: DispersionGood, Match: func(s float64) bool { return s < t.GoodBelowK }},
		{Label: DispersionModerate, Match: func(s float64) bool { return s < t.ModerateBelowK }},
	}
}

// Dispersion classifies a stability value.
func Dispersion(t Thresholds, stability float64) string {
	return Classify(DispersionRules(t), stability, DispersionPoor)
}

// Aerosol source labels.
const (
	SourceUnknown    = "Unknown"
	SourceCombustion = "Combustion-dominated"
	SourceMixed      = "Mixed"
	SourceDust       = "Dust-dominated"
)

// SourceRules orders the fine-mode fraction bands; Dust-dominated is the fallback.
func SourceRules(t Thresholds) []Rule[*float64] {
	return []Rule[*float64]{
		{Label: SourceUnknown, Match: func(f *float64) bool { return f == nil }},
		{Label: SourceCombustion, Match: func(f *float64) bool { return *f > t.CombustionFraction }},
		{Label: SourceMixed, Match: func(f *float64) bool { return *f > t.MixedFraction }},
	}
}

// SourceLabel classifies a fine-mode fraction.
func SourceLabel(t Thresholds, fraction *float64) string {
	return Classify(SourceRules(t), fraction, SourceDust)
}
