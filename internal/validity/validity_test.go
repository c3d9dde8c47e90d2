package validity_test

import (
	"testing"
	"time"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
	"github.com/Manugarciaa/sentrix-intake/internal/validity"
)

func weather(w sites.WeatherCondition) *sites.WeatherCondition { return &w }

// april avoids the seasonal wet/dry multipliers (Mar-May infers CLOUDY).
var april = time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)

func TestDays(t *testing.T) {
	tests := []struct {
		name string
		in   validity.Input
		want int
	}{
		{
			// base 2 x1.2 risk x1.0 cloudy x1.1 confidence = 2.64
			name: "standing water high confidence cloudy season",
			in: validity.Input{
				SiteType:   sites.SiteStandingWater,
				Risk:       sites.RiskHigh,
				Confidence: 0.95,
				At:         april,
			},
			want: 3,
		},
		{
			// base 2 x1.2 x1.8 wet season x1.1 = 4.752
			name: "standing water wet season inference",
			in: validity.Input{
				SiteType:   sites.SiteStandingWater,
				Risk:       sites.RiskHigh,
				Confidence: 0.95,
				At:         time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			},
			want: 5,
		},
		{
			// base 2 x1.2 x0.6 dry season x1.1 = 1.584
			name: "standing water dry season inference",
			in: validity.Input{
				SiteType:   sites.SiteStandingWater,
				Risk:       sites.RiskHigh,
				Confidence: 0.95,
				At:         time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
			},
			want: 2,
		},
		{
			// base 7 x1.2 x1.5 rainy = 12.6; explicit weather overrides season
			name: "trash rainy explicit weather",
			in: validity.Input{
				SiteType:   sites.SiteTrash,
				Risk:       sites.RiskHigh,
				Weather:    weather(sites.WeatherRainy),
				Confidence: 0.8,
				At:         april,
			},
			want: 13,
		},
		{
			// base 7 x1.2 x1.5 x1.3 validated = 16.38
			name: "validated bonus",
			in: validity.Input{
				SiteType:    sites.SiteTrash,
				Risk:        sites.RiskHigh,
				Weather:     weather(sites.WeatherRainy),
				Confidence:  0.8,
				IsValidated: true,
				At:          april,
			},
			want: 16,
		},
		{
			// base 30, weather must not apply to medium term: x1.0 risk x0.7 low confidence = 21
			name: "pothole ignores weather",
			in: validity.Input{
				SiteType:   sites.SitePothole,
				Risk:       sites.RiskMedium,
				Weather:    weather(sites.WeatherWetSeason),
				Confidence: 0.5,
				At:         april,
			},
			want: 21,
		},
		{
			// base 180 x1.2 x1.1 x1.3 = 308.88
			name: "damaged street long term",
			in: validity.Input{
				SiteType:    sites.SiteDamagedStreet,
				Risk:        sites.RiskHigh,
				Confidence:  0.95,
				IsValidated: true,
				At:          april,
			},
			want: 309,
		},
		{
			// base 2 x0.6 minimal x0.5 sunny x0.7 low confidence = 0.42, clamps to 1
			name: "floor clamp",
			in: validity.Input{
				SiteType:   sites.SiteStandingWater,
				Risk:       sites.RiskMinimal,
				Weather:    weather(sites.WeatherSunny),
				Confidence: 0.3,
				At:         april,
			},
			want: 1,
		},
		{
			// unknown type defaults to medium term: 30 x0.8 low risk = 24
			name: "unknown type medium term default",
			in: validity.Input{
				SiteType:   sites.SiteType("GRAFFITI"),
				Risk:       sites.RiskLow,
				Confidence: 0.8,
				At:         april,
			},
			want: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validity.Days(tt.in); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysAlwaysInRange(t *testing.T) {
	weathers := []*sites.WeatherCondition{
		nil,
		weather(sites.WeatherSunny),
		weather(sites.WeatherRainy),
		weather(sites.WeatherWetSeason),
	}
	risks := []sites.RiskLevel{sites.RiskHigh, sites.RiskMedium, sites.RiskLow, sites.RiskMinimal}
	confidences := []float64{0.1, 0.69, 0.7, 0.9, 0.91, 1.0}

	for _, st := range sites.SiteTypes {
		for _, r := range risks {
			for _, w := range weathers {
				for _, c := range confidences {
					for _, v := range []bool{false, true} {
						got := validity.Days(validity.Input{
							SiteType:    st,
							Risk:        r,
							Weather:     w,
							Confidence:  c,
							IsValidated: v,
							At:          april,
						})
						if got < validity.MinDays || got > validity.MaxDays {
							t.Fatalf("Days(%s,%s,conf=%.2f) = %d out of range", st, r, c, got)
						}
					}
				}
			}
		}
	}
}

func TestExpiresAt(t *testing.T) {
	in := validity.Input{
		SiteType:   sites.SiteStandingWater,
		Risk:       sites.RiskHigh,
		Confidence: 0.95,
		At:         april,
	}

	days := validity.Days(in)
	expires := validity.ExpiresAt(april, in)

	if want := april.AddDate(0, 0, days); !expires.Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", expires, want)
	}
	if !expires.After(april) {
		t.Error("ExpiresAt must be after detection time")
	}
}

func TestSeasonalWeather(t *testing.T) {
	tests := []struct {
		month time.Month
		want  sites.WeatherCondition
	}{
		{time.December, sites.WeatherWetSeason},
		{time.January, sites.WeatherWetSeason},
		{time.February, sites.WeatherWetSeason},
		{time.June, sites.WeatherDrySeason},
		{time.July, sites.WeatherDrySeason},
		{time.August, sites.WeatherDrySeason},
		{time.March, sites.WeatherCloudy},
		{time.October, sites.WeatherCloudy},
	}

	for _, tt := range tests {
		at := time.Date(2025, tt.month, 1, 0, 0, 0, 0, time.UTC)
		if got := validity.SeasonalWeather(at); got != tt.want {
			t.Errorf("SeasonalWeather(%s) = %s, want %s", tt.month, got, tt.want)
		}
	}
}

func TestComputeStatus(t *testing.T) {
	now := time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		expiresAt     time.Time
		wantLevel     validity.StatusLevel
		wantPct       int
		wantExpired   bool
		wantRemaining int
		wantReval     bool
	}{
		{"already expired", now.AddDate(0, 0, -2), validity.StatusExpired, 0, true, 0, true},
		{"expires exactly now", now, validity.StatusExpired, 0, true, 0, true},
		{"under a day left", now.Add(12 * time.Hour), validity.StatusExpiringSoon, 10, false, 0, true},
		{"one day left", now.Add(36 * time.Hour), validity.StatusExpiringSoon, 10, false, 1, true},
		{"three days left", now.AddDate(0, 0, 3), validity.StatusLowValidity, 30, false, 3, false},
		{"a week left", now.AddDate(0, 0, 7), validity.StatusMediumValidity, 60, false, 7, false},
		{"plenty left", now.AddDate(0, 0, 30), validity.StatusValid, 100, false, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validity.ComputeStatus(tt.expiresAt, now)

			if got.Level != tt.wantLevel {
				t.Errorf("Level = %s, want %s", got.Level, tt.wantLevel)
			}
			if got.ValidityPercentage != tt.wantPct {
				t.Errorf("ValidityPercentage = %d, want %d", got.ValidityPercentage, tt.wantPct)
			}
			if got.IsExpired != tt.wantExpired {
				t.Errorf("IsExpired = %v, want %v", got.IsExpired, tt.wantExpired)
			}
			if got.RemainingDays == nil || *got.RemainingDays != tt.wantRemaining {
				t.Errorf("RemainingDays = %v, want %d", got.RemainingDays, tt.wantRemaining)
			}
			if got.RequiresRevalidation != tt.wantReval {
				t.Errorf("RequiresRevalidation = %v, want %v", got.RequiresRevalidation, tt.wantReval)
			}
		})
	}
}

func TestComputeStatusIdempotent(t *testing.T) {
	now := time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)
	expires := now.AddDate(0, 0, 5)

	first := validity.ComputeStatus(expires, now)
	second := validity.ComputeStatus(expires, now)

	if first.Level != second.Level ||
		first.ValidityPercentage != second.ValidityPercentage ||
		*first.RemainingDays != *second.RemainingDays {
		t.Errorf("repeated ComputeStatus diverged: %+v vs %+v", first, second)
	}
}

func TestExtend(t *testing.T) {
	now := time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)
	current := now.AddDate(0, 0, 3)

	ext, err := validity.Extend(current, 10, "inspector-7", "site still active after rain", now)
	if err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	if want := current.AddDate(0, 0, 10); !ext.NewExpiresAt.Equal(want) {
		t.Errorf("NewExpiresAt = %v, want %v", ext.NewExpiresAt, want)
	}
	if !ext.OldExpiresAt.Equal(current) {
		t.Errorf("OldExpiresAt = %v, want %v", ext.OldExpiresAt, current)
	}
	if ext.By != "inspector-7" || ext.Reason == "" {
		t.Errorf("audit fields not recorded: %+v", ext)
	}
}

func TestExtendMonotonic(t *testing.T) {
	now := time.Now()
	expires := now.AddDate(0, 0, 2)

	for i := 0; i < 5; i++ {
		ext, err := validity.Extend(expires, 7, "inspector", "recheck", now)
		if err != nil {
			t.Fatalf("Extend() error = %v", err)
		}
		if !ext.NewExpiresAt.After(expires) {
			t.Fatalf("extension %d did not move expiry forward", i)
		}
		expires = ext.NewExpiresAt
	}
}

func TestExtendValidation(t *testing.T) {
	now := time.Now()

	if _, err := validity.Extend(now, 0, "x", "reason", now); err == nil {
		t.Error("expected error for zero days")
	}
	if _, err := validity.Extend(now, 366, "x", "reason", now); err == nil {
		t.Error("expected error for days over maximum")
	}
	if _, err := validity.Extend(now, 5, "x", "", now); err == nil {
		t.Error("expected error for missing reason")
	}
}

func TestShouldAlert(t *testing.T) {
	now := time.Date(2025, time.April, 15, 12, 0, 0, 0, time.UTC)
	oneDayLeft := now.Add(36 * time.Hour)

	recent := now.Add(-2 * time.Hour)
	stale := now.Add(-30 * time.Hour)

	tests := []struct {
		name      string
		expiresAt time.Time
		lastAlert *time.Time
		want      bool
	}{
		{"one day left, never alerted", oneDayLeft, nil, true},
		{"one day left, stale alert", oneDayLeft, &stale, true},
		{"one day left, recent alert", oneDayLeft, &recent, false},
		{"plenty of time left", now.AddDate(0, 0, 10), nil, false},
		{"already expired", now.AddDate(0, 0, -1), nil, false},
		{"under a day left", now.Add(6 * time.Hour), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validity.ShouldAlert(tt.expiresAt, tt.lastAlert, now); got != tt.want {
				t.Errorf("ShouldAlert() = %v, want %v", got, tt.want)
			}
		})
	}
}
