// Package sites defines the canonical vocabulary for breeding-site detection:
// site types, risk levels, persistence classes, weather conditions, and
// validation states. Wire formats (detector class names, persisted rows, API
// payloads) carry the upstream Spanish literals; every boundary converts
// through the adapter tables in wire.go so the canonical types never vary
// by caller.
package sites

// SiteType identifies the kind of breeding site a detection found.
type SiteType string

// Canonical breeding-site types.
const (
	SiteTrash         SiteType = "TRASH"
	SiteDamagedStreet SiteType = "DAMAGED_STREET"
	SiteStandingWater SiteType = "STANDING_WATER"
	SitePothole       SiteType = "POTHOLE"
)

// SiteTypes lists all canonical site types in wire class-id order.
var SiteTypes = []SiteType{
	SiteTrash,
	SiteDamagedStreet,
	SiteStandingWater,
	SitePothole,
}

// RiskLevel is a categorical risk classification.
type RiskLevel string

// Risk levels from most to least severe.
const (
	RiskHigh    RiskLevel = "HIGH"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskLow     RiskLevel = "LOW"
	RiskMinimal RiskLevel = "MINIMAL"
)

// PersistenceType classifies how long a breeding-site type physically
// tends to remain before natural or human removal.
type PersistenceType string

// Persistence classes from shortest-lived to permanent.
const (
	PersistenceTransient  PersistenceType = "TRANSIENT"
	PersistenceShortTerm  PersistenceType = "SHORT_TERM"
	PersistenceMediumTerm PersistenceType = "MEDIUM_TERM"
	PersistenceLongTerm   PersistenceType = "LONG_TERM"
	PersistencePermanent  PersistenceType = "PERMANENT"
)

// WeatherCondition describes observed or season-inferred weather used to
// adjust validity windows for weather-dependent site types.
type WeatherCondition string

// Weather conditions.
const (
	WeatherSunny     WeatherCondition = "SUNNY"
	WeatherRainy     WeatherCondition = "RAINY"
	WeatherCloudy    WeatherCondition = "CLOUDY"
	WeatherDrySeason WeatherCondition = "DRY_SEASON"
	WeatherWetSeason WeatherCondition = "WET_SEASON"
)

// ValidationStatus tracks expert review of a detection.
type ValidationStatus string

// Validation states.
const (
	ValidationPending        ValidationStatus = "PENDING"
	ValidationValidated      ValidationStatus = "VALIDATED"
	ValidationRejected       ValidationStatus = "REJECTED"
	ValidationRequiresReview ValidationStatus = "REQUIRES_REVIEW"
)

// Persistence returns the persistence class for a site type.
// Unmapped types default to PersistenceMediumTerm.
func (s SiteType) Persistence() PersistenceType {
	if p, ok := persistenceTable[s]; ok {
		return p
	}
	return PersistenceMediumTerm
}

var persistenceTable = map[SiteType]PersistenceType{
	SiteStandingWater: PersistenceTransient,
	SiteTrash:         PersistenceShortTerm,
	SitePothole:       PersistenceMediumTerm,
	SiteDamagedStreet: PersistenceLongTerm,
}

// WeatherDependent reports whether the validity window of this persistence
// class responds to weather conditions.
func (p PersistenceType) WeatherDependent() bool {
	return p == PersistenceTransient || p == PersistenceShortTerm
}

// Risk returns the intrinsic risk level of a site type. Standing water and
// trash host larvae directly; potholes and damaged streets accumulate water
// indirectly.
func (s SiteType) Risk() RiskLevel {
	switch s {
	case SiteStandingWater, SiteTrash:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// HighRisk reports whether the site type belongs to the high-risk class.
func (s SiteType) HighRisk() bool {
	return s.Risk() == RiskHigh
}
