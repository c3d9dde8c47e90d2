package detector

import (
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

// Finding is a normalized detection: canonical enums, validated fields.
type Finding struct {
	SiteType   sites.SiteType
	Risk       sites.RiskLevel
	Confidence float64
	Polygon    sites.Polygon
	MaskArea   float64

	// Defaulted lists fields that were malformed on the wire and replaced
	// with safe defaults during normalization.
	Defaulted []string
}

// Normalize converts a raw wire detection to a Finding. Malformed fields
// are defaulted and reported, never escalated: a single bad detection must
// not sink the analysis that contains it.
func Normalize(raw RawDetection, logger *slog.Logger) Finding {
	var defaulted []string

	siteType, ok := sites.ParseSiteType(raw.ClassName)
	if !ok {
		siteType, ok = sites.ParseClassID(raw.ClassID)
	}
	if !ok {
		// Unmapped classes keep their reported name; persistence falls back
		// to the medium-term default downstream.
		name := strings.TrimSpace(raw.ClassName)
		if name == "" {
			name = "UNKNOWN"
			defaulted = append(defaulted, "class_name")
		}
		siteType = sites.SiteType(strings.ToUpper(name))
	}

	confidence := raw.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.5
		defaulted = append(defaulted, "confidence")
	}

	maskArea := raw.MaskArea
	if maskArea < 0 {
		maskArea = 0
		defaulted = append(defaulted, "mask_area")
	}

	polygon := make(sites.Polygon, 0, len(raw.Polygon))
	dropped := false
	for _, pt := range raw.Polygon {
		if len(pt) < 2 {
			dropped = true
			continue
		}
		polygon = append(polygon, sites.Point{X: pt[0], Y: pt[1]})
	}
	if dropped {
		defaulted = append(defaulted, "polygon")
	}

	if len(defaulted) > 0 {
		logger.Warn(
			"detection fields defaulted",
			"class", raw.ClassName,
			"fields", strings.Join(defaulted, ","),
		)
	}

	return Finding{
		SiteType:   siteType,
		Risk:       siteType.Risk(),
		Confidence: confidence,
		Polygon:    polygon,
		MaskArea:   maskArea,
		Defaulted:  defaulted,
	}
}

// AnnotatedImage decodes the base64 annotated image from a response.
// Returns nil when absent or undecodable.
func (r *Response) AnnotatedImage() []byte {
	if r.AnnotatedImageB64 == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(r.AnnotatedImageB64)
	if err != nil {
		return nil
	}
	return data
}
