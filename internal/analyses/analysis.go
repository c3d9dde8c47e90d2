// Package analyses implements the analysis domain: persisted results of the
// detection pipeline. It provides types, data access, and the HTTP surface
// for uploaded-image analyses and their detections.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

// Analysis represents one processed upload. A duplicate-reference analysis
// records a re-upload of known content: no detector call happened, no bytes
// were stored, and ReferenceAnalysisID points at the analysis that did the
// work.
type Analysis struct {
	ID                   uuid.UUID       `json:"id"`
	Filename             string          `json:"filename"`
	ContentSignature     string          `json:"content_signature"`
	SignatureSizeBytes   int64           `json:"signature_size_bytes"`
	ImageURL             string          `json:"image_url,omitempty"`
	StorageKey           string          `json:"storage_key,omitempty"`
	AnnotatedImageURL    *string         `json:"annotated_image_url,omitempty"`
	AnnotatedStorageKey  *string         `json:"annotated_storage_key,omitempty"`
	TotalDetections      int             `json:"total_detections"`
	RiskLevel            sites.RiskLevel `json:"risk_level"`
	RiskScore            float64         `json:"risk_score"`
	HasLocation          bool            `json:"has_location"`
	Latitude             *float64        `json:"latitude,omitempty"`
	Longitude            *float64        `json:"longitude,omitempty"`
	CameraMake           *string         `json:"camera_make,omitempty"`
	CameraModel          *string         `json:"camera_model,omitempty"`
	IsDuplicateReference bool            `json:"is_duplicate_reference"`
	ReferenceAnalysisID  *uuid.UUID      `json:"reference_analysis_id,omitempty"`
	StorageSavedBytes    *int64          `json:"storage_saved_bytes,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// Detection is one finding within an analyzed image. ExpiresAt equals
// CreatedAt plus ValidityPeriodDays at creation and only moves forward,
// through expert validation or an explicit extension.
type Detection struct {
	ID                      uuid.UUID              `json:"id"`
	AnalysisID              uuid.UUID              `json:"analysis_id"`
	SiteType                sites.SiteType         `json:"breeding_site_type"`
	Confidence              float64                `json:"confidence"`
	RiskLevel               sites.RiskLevel        `json:"risk_level"`
	Polygon                 sites.Polygon          `json:"polygon"`
	MaskArea                float64                `json:"mask_area"`
	PersistenceType         sites.PersistenceType  `json:"persistence_type"`
	ValidityPeriodDays      int                    `json:"validity_period_days"`
	ExpiresAt               time.Time              `json:"expires_at"`
	IsWeatherDependent      bool                   `json:"is_weather_dependent"`
	ValidationStatus        sites.ValidationStatus `json:"validation_status"`
	ValidatedBy             *string                `json:"validated_by,omitempty"`
	ValidatedAt             *time.Time             `json:"validated_at,omitempty"`
	LastExpirationAlertSent *time.Time             `json:"last_expiration_alert_sent,omitempty"`
	CreatedAt               time.Time              `json:"created_at"`
}

// ReferenceCommand carries the data needed to record a duplicate upload as
// a lightweight reference to a prior analysis.
type ReferenceCommand struct {
	Filename            string
	ContentSignature    string
	SignatureSizeBytes  int64
	ReferenceAnalysisID uuid.UUID
	ReferenceImageURL   string
	StorageSavedBytes   int64
}

// ValidateCommand carries an expert's verdict on a detection.
type ValidateCommand struct {
	ValidatedBy string `json:"validated_by"`
	Approve     bool   `json:"approve"`
}

// ExtendCommand carries a validity extension request for a detection.
type ExtendCommand struct {
	Days   int    `json:"days"`
	By     string `json:"by"`
	Reason string `json:"reason"`
}
