// Package validity computes temporal validity windows for detections.
// A detection stays operationally current for a number of days derived from
// the physical persistence of its site type, adjusted by risk, weather,
// detector confidence, and expert validation. All functions are pure; the
// caller supplies every timestamp.
package validity

import (
	"math"
	"time"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

// Bounds of the validity window in days.
const (
	MinDays = 1
	MaxDays = 365
)

// Base validity days per persistence class.
var baseDays = map[sites.PersistenceType]float64{
	sites.PersistenceTransient:  2,
	sites.PersistenceShortTerm:  7,
	sites.PersistenceMediumTerm: 30,
	sites.PersistenceLongTerm:   180,
	sites.PersistencePermanent:  365,
}

var riskMultiplier = map[sites.RiskLevel]float64{
	sites.RiskHigh:    1.2,
	sites.RiskMedium:  1.0,
	sites.RiskLow:     0.8,
	sites.RiskMinimal: 0.6,
}

var weatherMultiplier = map[sites.WeatherCondition]float64{
	sites.WeatherSunny:     0.5,
	sites.WeatherRainy:     1.5,
	sites.WeatherCloudy:    1.0,
	sites.WeatherDrySeason: 0.6,
	sites.WeatherWetSeason: 1.8,
}

// Input carries the factors that determine a detection's validity window.
// Weather is optional; when nil and the site's persistence class is
// weather-dependent, a seasonal default is inferred from At's calendar month.
type Input struct {
	SiteType    sites.SiteType
	Risk        sites.RiskLevel
	Weather     *sites.WeatherCondition
	Confidence  float64
	IsValidated bool
	At          time.Time
}

// Days computes the validity window in days, clamped to [MinDays, MaxDays].
func Days(in Input) int {
	persistence := in.SiteType.Persistence()
	days := baseDays[persistence]

	if m, ok := riskMultiplier[in.Risk]; ok {
		days *= m
	}

	if persistence.WeatherDependent() {
		weather := in.Weather
		if weather == nil {
			w := SeasonalWeather(in.At)
			weather = &w
		}
		if m, ok := weatherMultiplier[*weather]; ok {
			days *= m
		}
	}

	switch {
	case in.Confidence < 0.7:
		days *= 0.7
	case in.Confidence > 0.9:
		days *= 1.1
	}

	if in.IsValidated {
		days *= 1.3
	}

	return clampDays(int(math.Round(days)))
}

// ExpiresAt computes the expiration timestamp for a detection made at t.
func ExpiresAt(t time.Time, in Input) time.Time {
	return t.AddDate(0, 0, Days(in))
}

// SeasonalWeather infers a default weather condition from the calendar
// month: Dec-Feb wet season, Jun-Aug dry season, otherwise cloudy.
func SeasonalWeather(t time.Time) sites.WeatherCondition {
	switch t.Month() {
	case time.December, time.January, time.February:
		return sites.WeatherWetSeason
	case time.June, time.July, time.August:
		return sites.WeatherDrySeason
	default:
		return sites.WeatherCloudy
	}
}

func clampDays(d int) int {
	if d < MinDays {
		return MinDays
	}
	if d > MaxDays {
		return MaxDays
	}
	return d
}
