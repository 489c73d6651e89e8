package analysis

import "github.com/couchcryptid/near-space-etl/internal/domain"

// EpisodeFlags are the two independent predicates evaluated on a month.
type EpisodeFlags struct {
	HighPollution bool
	Stagnant      bool
}

// EvaluateEpisode flags strong inversions coinciding with high fine-mode AOD
// (high pollution) or with high humidity (stagnant). Absent inputs never match.
func EvaluateEpisode(m domain.MergedMonth, t Thresholds) EpisodeFlags {
	strong := present(m.GradientMedian) && *m.GradientMedian > t.StrongInversionK
	return EpisodeFlags{
		HighPollution: strong && present(m.FineAOD) && *m.FineAOD > t.HighFineAOD,
		Stagnant:      strong && present(m.RH850Median) && *m.RH850Median > t.HighRHPct,
	}
}

// Episode is a month flagged as a high-pollution episode.
type Episode struct {
	Month     domain.Month `json:"month"`
	Stability *float64     `json:"theta_gradient_med"`
	FineAOD   *float64     `json:"fine_aod"`
	CoarseAOD *float64     `json:"coarse_aod"`
	RH850     *float64     `json:"rh_850_med"`
	Stagnant  bool         `json:"stagnant_conditions"`
}

// DetectEpisodes returns the high-pollution months in input order.
func DetectEpisodes(rows []domain.MergedMonth, t Thresholds) []Episode {
	var out []Episode
	for _, row := range rows {
		flags := EvaluateEpisode(row, t)
		if !flags.HighPollution {
			continue
		}
		out = append(out, Episode{
			Month:     row.Month,
			Stability: row.GradientMedian,
			FineAOD:   row.FineAOD,
			CoarseAOD: row.CoarseAOD,
			RH850:     row.RH850Median,
			Stagnant:  flags.Stagnant,
		})
	}
	return out
}
