// Package risk aggregates the detections of a single analysis into an
// overall risk classification. Type diversity is the leading signal:
// several distinct site types in one location points at a systemic
// sanitation failure, which outranks many instances of one type.
package risk

import (
	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

// Assessment is the computed risk profile of one analysis.
type Assessment struct {
	Level            sites.RiskLevel        `json:"level"`
	Score            float64                `json:"risk_score"`
	TotalDetections  int                    `json:"total_detections"`
	HighRiskCount    int                    `json:"high_risk_count"`
	MediumRiskCount  int                    `json:"medium_risk_count"`
	UniqueTypes      int                    `json:"unique_types"`
	DiversityRatio   float64                `json:"diversity_ratio"`
	TypeDistribution map[sites.SiteType]int `json:"type_distribution"`
	Recommendations  []string               `json:"recommendations"`
}

// Assess classifies the detections of one analysis. Empty input is valid
// and resolves to minimal risk. Rules are evaluated in order; the first
// match wins.
func Assess(detected []sites.SiteType) Assessment {
	distribution := make(map[sites.SiteType]int, len(detected))
	var high, medium int

	for _, st := range detected {
		distribution[st]++
		if st.HighRisk() {
			high++
		} else {
			medium++
		}
	}

	total := len(detected)
	unique := len(distribution)

	var diversity float64
	if total > 0 {
		diversity = float64(unique) / float64(total)
	}

	level, score := classify(total, high, medium, unique)

	return Assessment{
		Level:            level,
		Score:            clampScore(score),
		TotalDetections:  total,
		HighRiskCount:    high,
		MediumRiskCount:  medium,
		UniqueTypes:      unique,
		DiversityRatio:   diversity,
		TypeDistribution: distribution,
		Recommendations:  recommend(level, total, unique),
	}
}

func classify(total, high, medium, unique int) (sites.RiskLevel, float64) {
	switch {
	case unique >= 3 && total >= 4:
		return sites.RiskHigh, min(0.85+0.05*float64(unique), 1.0)
	case high >= 3 && unique >= 2:
		return sites.RiskHigh, min(0.9+0.02*float64(high), 1.0)
	case high >= 5:
		return sites.RiskHigh, min(0.85+0.03*float64(high), 1.0)
	case unique >= 2 && (high >= 1 || medium >= 2):
		return sites.RiskMedium, 0.5 + 0.05*float64(unique) + 0.1*float64(high)
	case high >= 1:
		return sites.RiskMedium, 0.5 + 0.1*float64(high) + 0.05*float64(medium)
	case medium >= 3 && unique >= 2:
		return sites.RiskMedium, 0.45 + 0.05*float64(medium)
	case medium >= 1 || (total >= 3 && unique == 1):
		return sites.RiskLow, 0.25 + 0.02*float64(total)
	default:
		return sites.RiskMinimal, 0.05 + 0.01*float64(total)
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
