package risk

import "github.com/kiranshivaraju/clausecheck/pkg/models"

// Score thresholds on the mean clause weight.
const (
	HighThreshold   = 2.5
	MediumThreshold = 1.5
)

// Weight maps a level to its numeric weight. Unrecognized levels weigh as Low.
func Weight(level models.RiskLevel) int {
	switch level {
	case models.RiskHigh:
		return 3
	case models.RiskMedium:
		return 2
	default:
		return 1
	}
}

// Score returns the mean weight of levels. An empty input scores 1.
func Score(levels []models.RiskLevel) float64 {
	if len(levels) == 0 {
		return 1
	}
	total := 0
	for _, l := range levels {
		total += Weight(l)
	}
	return float64(total) / float64(len(levels))
}

// Overall buckets the mean weight of levels into a contract-level verdict.
func Overall(levels []models.RiskLevel) models.OverallRisk {
	switch s := Score(levels); {
	case s >= HighThreshold:
		return models.OverallHigh
	case s >= MediumThreshold:
		return models.OverallMedium
	default:
		return models.OverallLow
	}
}

// Count tallies levels. Unrecognized levels count as Low, matching their weight.
func Count(levels []models.RiskLevel) models.RiskCounts {
	var c models.RiskCounts
	for _, l := range levels {
		switch l {
		case models.RiskHigh:
			c.High++
		case models.RiskMedium:
			c.Medium++
		default:
			c.Low++
		}
	}
	return c
}
