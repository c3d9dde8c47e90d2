package analyses

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
	"github.com/Manugarciaa/sentrix-intake/pkg/query"
	"github.com/Manugarciaa/sentrix-intake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_signature", "ContentSignature").
	Project("signature_size_bytes", "SignatureSizeBytes").
	Project("image_url", "ImageURL").
	Project("storage_key", "StorageKey").
	Project("annotated_image_url", "AnnotatedImageURL").
	Project("annotated_storage_key", "AnnotatedStorageKey").
	Project("total_detections", "TotalDetections").
	Project("risk_level", "RiskLevel").
	Project("risk_score", "RiskScore").
	Project("has_location", "HasLocation").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("camera_make", "CameraMake").
	Project("camera_model", "CameraModel").
	Project("is_duplicate_reference", "IsDuplicateReference").
	Project("reference_analysis_id", "ReferenceAnalysisID").
	Project("storage_saved_bytes", "StorageSavedBytes").
	Project("created_at", "CreatedAt")

var detectionProjection = query.
	NewProjectionMap("public", "detections", "d").
	Project("id", "ID").
	Project("analysis_id", "AnalysisID").
	Project("site_type", "SiteType").
	Project("confidence", "Confidence").
	Project("risk_level", "RiskLevel").
	Project("polygon", "Polygon").
	Project("mask_area", "MaskArea").
	Project("persistence_type", "PersistenceType").
	Project("validity_period_days", "ValidityPeriodDays").
	Project("expires_at", "ExpiresAt").
	Project("is_weather_dependent", "IsWeatherDependent").
	Project("validation_status", "ValidationStatus").
	Project("validated_by", "ValidatedBy").
	Project("validated_at", "ValidatedAt").
	Project("last_expiration_alert_sent", "LastExpirationAlertSent").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. RiskLevel accepts wire literals (ALTO, MEDIO...).
type Filters struct {
	RiskLevel            *string `json:"risk_level,omitempty"`
	IsDuplicateReference *bool   `json:"is_duplicate_reference,omitempty"`
	HasLocation          *bool   `json:"has_location,omitempty"`
	Filename             *string `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var level *string
	if f.RiskLevel != nil {
		if parsed, ok := sites.ParseRiskLevel(*f.RiskLevel); ok {
			w := parsed.Wire()
			level = &w
		} else {
			level = f.RiskLevel
		}
	}

	return b.
		WhereEquals("RiskLevel", level).
		WhereEquals("IsDuplicateReference", f.IsDuplicateReference).
		WhereEquals("HasLocation", f.HasLocation).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if rl := values.Get("risk_level"); rl != "" {
		f.RiskLevel = &rl
	}
	if d := values.Get("is_duplicate_reference"); d != "" {
		if v, err := strconv.ParseBool(d); err == nil {
			f.IsDuplicateReference = &v
		}
	}
	if h := values.Get("has_location"); h != "" {
		if v, err := strconv.ParseBool(h); err == nil {
			f.HasLocation = &v
		}
	}
	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a         Analysis
		riskLevel string
	)

	err := s.Scan(
		&a.ID,
		&a.Filename,
		&a.ContentSignature,
		&a.SignatureSizeBytes,
		&a.ImageURL,
		&a.StorageKey,
		&a.AnnotatedImageURL,
		&a.AnnotatedStorageKey,
		&a.TotalDetections,
		&riskLevel,
		&a.RiskScore,
		&a.HasLocation,
		&a.Latitude,
		&a.Longitude,
		&a.CameraMake,
		&a.CameraModel,
		&a.IsDuplicateReference,
		&a.ReferenceAnalysisID,
		&a.StorageSavedBytes,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	a.RiskLevel = parseRisk(riskLevel)
	return a, nil
}

func scanDetection(s repository.Scanner) (Detection, error) {
	var (
		d          Detection
		siteType   string
		riskLevel  string
		polygonRaw []byte
		status     string
	)

	err := s.Scan(
		&d.ID,
		&d.AnalysisID,
		&siteType,
		&d.Confidence,
		&riskLevel,
		&polygonRaw,
		&d.MaskArea,
		&d.PersistenceType,
		&d.ValidityPeriodDays,
		&d.ExpiresAt,
		&d.IsWeatherDependent,
		&status,
		&d.ValidatedBy,
		&d.ValidatedAt,
		&d.LastExpirationAlertSent,
		&d.CreatedAt,
	)
	if err != nil {
		return d, err
	}

	if t, ok := sites.ParseSiteType(siteType); ok {
		d.SiteType = t
	} else {
		d.SiteType = sites.SiteType(siteType)
	}
	d.RiskLevel = parseRisk(riskLevel)

	if st, ok := sites.ParseValidationStatus(status); ok {
		d.ValidationStatus = st
	} else {
		d.ValidationStatus = sites.ValidationStatus(status)
	}

	if len(polygonRaw) > 0 {
		if err := json.Unmarshal(polygonRaw, &d.Polygon); err != nil {
			d.Polygon = nil
		}
	}

	return d, nil
}

func parseRisk(wire string) sites.RiskLevel {
	if r, ok := sites.ParseRiskLevel(wire); ok {
		return r
	}
	return sites.RiskLevel(wire)
}

func marshalPolygon(p sites.Polygon) []byte {
	if len(p) == 0 {
		return []byte("[]")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return []byte("[]")
	}
	return raw
}
