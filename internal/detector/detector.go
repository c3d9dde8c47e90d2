// Package detector provides the client boundary to the external breeding-site
// detection model service. The HTTP client and the stub client both satisfy
// Client; composition code picks one at construction time.
package detector

import (
	"context"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

// Confidence threshold bounds accepted by the model service.
const (
	MinConfidenceThreshold = 0.1
	MaxConfidenceThreshold = 1.0
)

// Request carries one image to the model service.
type Request struct {
	Image               []byte
	Filename            string
	ConfidenceThreshold float64
}

// RawDetection is one finding as reported on the wire, before enum
// normalization and field validation.
type RawDetection struct {
	ClassID    int         `json:"class_id"`
	ClassName  string      `json:"class_name"`
	Confidence float64     `json:"confidence"`
	Polygon    [][]float64 `json:"polygon"`
	MaskArea   float64     `json:"mask_area"`
}

// Response is the model service's answer for one image.
type Response struct {
	Detections        []RawDetection    `json:"detections"`
	Location          *sites.Location   `json:"location,omitempty"`
	Camera            *sites.CameraInfo `json:"camera,omitempty"`
	AnnotatedImageB64 string            `json:"annotated_image,omitempty"`
	ProcessingTimeSec float64           `json:"processing_time"`
}

// Client is the detection boundary consumed by the ingestion pipeline.
type Client interface {
	Detect(ctx context.Context, req Request) (*Response, error)
}
