package sites

import "strings"

// Upstream wire literals. The detector service and the persisted row format
// use the original Spanish enumeration values; these tables are the only
// place the two vocabularies meet.
const (
	wireTrash         = "BASURA"
	wireDamagedStreet = "CALLES_MAL_HECHAS"
	wireStandingWater = "CHARCOS_CUMULO_AGUA"
	wirePothole       = "HUECOS"

	wireRiskHigh    = "ALTO"
	wireRiskMedium  = "MEDIO"
	wireRiskLow     = "BAJO"
	wireRiskMinimal = "MINIMO"
)

var siteWire = map[SiteType]string{
	SiteTrash:         wireTrash,
	SiteDamagedStreet: wireDamagedStreet,
	SiteStandingWater: wireStandingWater,
	SitePothole:       wirePothole,
}

var riskWire = map[RiskLevel]string{
	RiskHigh:    wireRiskHigh,
	RiskMedium:  wireRiskMedium,
	RiskLow:     wireRiskLow,
	RiskMinimal: wireRiskMinimal,
}

// Wire returns the persisted/transported literal for a site type.
func (s SiteType) Wire() string {
	if w, ok := siteWire[s]; ok {
		return w
	}
	return string(s)
}

// Wire returns the persisted/transported literal for a risk level.
func (r RiskLevel) Wire() string {
	if w, ok := riskWire[r]; ok {
		return w
	}
	return string(r)
}

// ParseSiteType converts a wire literal or detector class name to the
// canonical site type. Matching is tolerant of case, spaces, slashes, and
// accents-stripped variants seen in detector class names
// ("Charcos/Cumulo de agua", "Calles mal hechas").
func ParseSiteType(s string) (SiteType, bool) {
	key := normalizeWire(s)
	t, ok := siteParse[key]
	return t, ok
}

// ParseClassID converts a detector class index to the canonical site type.
func ParseClassID(id int) (SiteType, bool) {
	if id < 0 || id >= len(SiteTypes) {
		return "", false
	}
	return SiteTypes[id], true
}

// ParseRiskLevel converts a wire literal to the canonical risk level.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch normalizeWire(s) {
	case wireRiskHigh, "HIGH":
		return RiskHigh, true
	case wireRiskMedium, "MEDIUM":
		return RiskMedium, true
	case wireRiskLow, "LOW":
		return RiskLow, true
	case wireRiskMinimal, "MINIMAL":
		return RiskMinimal, true
	}
	return "", false
}

// ParseWeatherCondition converts a wire literal to the canonical weather
// condition. Both English names and Spanish report literals are accepted.
func ParseWeatherCondition(s string) (WeatherCondition, bool) {
	switch normalizeWire(s) {
	case "SUNNY", "SOLEADO":
		return WeatherSunny, true
	case "RAINY", "LLUVIOSO":
		return WeatherRainy, true
	case "CLOUDY", "NUBLADO":
		return WeatherCloudy, true
	case "DRY_SEASON", "EPOCA_SECA":
		return WeatherDrySeason, true
	case "WET_SEASON", "EPOCA_LLUVIOSA":
		return WeatherWetSeason, true
	}
	return "", false
}

// ParseValidationStatus converts a wire literal to the canonical status.
func ParseValidationStatus(s string) (ValidationStatus, bool) {
	switch normalizeWire(s) {
	case "PENDING":
		return ValidationPending, true
	case "VALIDATED":
		return ValidationValidated, true
	case "REJECTED":
		return ValidationRejected, true
	case "REQUIRES_REVIEW":
		return ValidationRequiresReview, true
	}
	return "", false
}

var siteParse = map[string]SiteType{
	wireTrash:              SiteTrash,
	wireDamagedStreet:      SiteDamagedStreet,
	wireStandingWater:      SiteStandingWater,
	wirePothole:            SitePothole,
	"CHARCOS_CUMULO_DE_AGUA": SiteStandingWater,
	"TRASH":                SiteTrash,
	"DAMAGED_STREET":       SiteDamagedStreet,
	"STANDING_WATER":       SiteStandingWater,
	"POTHOLE":              SitePothole,
}

var wireReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_",
	"-", "_",
	"á", "A",
	"é", "E",
	"í", "I",
	"ó", "O",
	"ú", "U",
	"Á", "A",
	"É", "E",
	"Í", "I",
	"Ó", "O",
	"Ú", "U",
)

func normalizeWire(s string) string {
	s = strings.TrimSpace(s)
	s = wireReplacer.Replace(s)
	s = strings.ToUpper(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
