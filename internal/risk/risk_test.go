package risk_test

import (
	"math"
	"strings"
	"testing"

	"github.com/Manugarciaa/sentrix-intake/internal/risk"
	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

func repeat(st sites.SiteType, n int) []sites.SiteType {
	out := make([]sites.SiteType, n)
	for i := range out {
		out[i] = st
	}
	return out
}

func TestAssessRules(t *testing.T) {
	tests := []struct {
		name      string
		detected  []sites.SiteType
		wantLevel sites.RiskLevel
		wantScore float64
	}{
		{
			// rule 1: unique=3 total=4 -> 0.85 + 0.05*3
			name: "diverse types escalate to high",
			detected: []sites.SiteType{
				sites.SiteStandingWater, sites.SiteTrash, sites.SitePothole, sites.SiteTrash,
			},
			wantLevel: sites.RiskHigh,
			wantScore: 1.0,
		},
		{
			// rule 2: high=3 unique=2 -> 0.9 + 0.02*3 = 0.96
			name: "three high risk of two types",
			detected: []sites.SiteType{
				sites.SiteStandingWater, sites.SiteStandingWater, sites.SiteTrash,
			},
			wantLevel: sites.RiskHigh,
			wantScore: 0.96,
		},
		{
			// rule 3: high=5 unique=1 -> 0.85 + 0.03*5 = 1.0
			name:      "five high risk of one type",
			detected:  repeat(sites.SiteStandingWater, 5),
			wantLevel: sites.RiskHigh,
			wantScore: 1.0,
		},
		{
			// rule 4: unique=2 high=1 -> 0.5 + 0.05*2 + 0.1*1 = 0.7
			name: "mixed types with one high risk",
			detected: []sites.SiteType{
				sites.SiteStandingWater, sites.SitePothole,
			},
			wantLevel: sites.RiskMedium,
			wantScore: 0.7,
		},
		{
			// rule 5: high=1 medium=0 unique=1 -> 0.5 + 0.1*1 = 0.6
			name:      "single high risk detection",
			detected:  []sites.SiteType{sites.SiteTrash},
			wantLevel: sites.RiskMedium,
			wantScore: 0.6,
		},
		{
			// rule 4 beats rule 6: unique=2 medium=4 -> 0.5 + 0.05*2 = 0.6
			name: "many medium of two types",
			detected: []sites.SiteType{
				sites.SitePothole, sites.SitePothole,
				sites.SiteDamagedStreet, sites.SiteDamagedStreet,
			},
			wantLevel: sites.RiskMedium,
			wantScore: 0.6,
		},
		{
			// rule 7: medium=3 unique=1 -> 0.25 + 0.02*3 = 0.31
			name:      "three potholes stay low",
			detected:  repeat(sites.SitePothole, 3),
			wantLevel: sites.RiskLow,
			wantScore: 0.31,
		},
		{
			// rule 7: medium=1 -> 0.25 + 0.02*1 = 0.27
			name:      "single medium risk detection",
			detected:  []sites.SiteType{sites.SiteDamagedStreet},
			wantLevel: sites.RiskLow,
			wantScore: 0.27,
		},
		{
			// rule 8: empty input -> 0.05
			name:      "no detections",
			detected:  nil,
			wantLevel: sites.RiskMinimal,
			wantScore: 0.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := risk.Assess(tt.detected)

			if got.Level != tt.wantLevel {
				t.Errorf("Level = %s, want %s", got.Level, tt.wantLevel)
			}
			if math.Abs(got.Score-tt.wantScore) > 1e-9 {
				t.Errorf("Score = %.4f, want %.4f", got.Score, tt.wantScore)
			}
		})
	}
}

func TestAssessCounts(t *testing.T) {
	detected := []sites.SiteType{
		sites.SiteStandingWater, sites.SiteStandingWater,
		sites.SiteTrash, sites.SitePothole,
	}

	got := risk.Assess(detected)

	if got.TotalDetections != 4 {
		t.Errorf("TotalDetections = %d, want 4", got.TotalDetections)
	}
	if got.HighRiskCount != 3 {
		t.Errorf("HighRiskCount = %d, want 3", got.HighRiskCount)
	}
	if got.MediumRiskCount != 1 {
		t.Errorf("MediumRiskCount = %d, want 1", got.MediumRiskCount)
	}
	if got.UniqueTypes != 3 {
		t.Errorf("UniqueTypes = %d, want 3", got.UniqueTypes)
	}
	if want := 3.0 / 4.0; math.Abs(got.DiversityRatio-want) > 1e-9 {
		t.Errorf("DiversityRatio = %.4f, want %.4f", got.DiversityRatio, want)
	}
	if got.TypeDistribution[sites.SiteStandingWater] != 2 {
		t.Errorf("TypeDistribution[standing water] = %d, want 2", got.TypeDistribution[sites.SiteStandingWater])
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	// Exhaustive-ish sweep over small detection sets.
	for a := 0; a <= 6; a++ {
		for b := 0; b <= 6; b++ {
			for c := 0; c <= 6; c++ {
				var detected []sites.SiteType
				detected = append(detected, repeat(sites.SiteStandingWater, a)...)
				detected = append(detected, repeat(sites.SiteTrash, b)...)
				detected = append(detected, repeat(sites.SitePothole, c)...)

				got := risk.Assess(detected)
				if got.Score < 0 || got.Score > 1 {
					t.Fatalf("Score = %.4f out of range for %d/%d/%d", got.Score, a, b, c)
				}
				if got.DiversityRatio < 0 || got.DiversityRatio > 1 {
					t.Fatalf("DiversityRatio = %.4f out of range", got.DiversityRatio)
				}
			}
		}
	}
}

func TestRecommendations(t *testing.T) {
	t.Run("systemic pattern flagged", func(t *testing.T) {
		got := risk.Assess([]sites.SiteType{
			sites.SiteStandingWater, sites.SiteTrash, sites.SitePothole, sites.SiteDamagedStreet,
		})

		if !containsSubstring(got.Recommendations, "systemic") {
			t.Errorf("expected systemic note in %v", got.Recommendations)
		}
	})

	t.Run("localized pattern flagged", func(t *testing.T) {
		got := risk.Assess(repeat(sites.SitePothole, 3))

		if !containsSubstring(got.Recommendations, "localized") {
			t.Errorf("expected localized note in %v", got.Recommendations)
		}
	})

	t.Run("empty input still recommends", func(t *testing.T) {
		got := risk.Assess(nil)
		if len(got.Recommendations) == 0 {
			t.Error("expected at least one recommendation for empty input")
		}
	})
}

func containsSubstring(recs []string, sub string) bool {
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r), sub) {
			return true
		}
	}
	return false
}
