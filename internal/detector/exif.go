package detector

import (
	"bytes"

	"github.com/bep/imagemeta"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

// ExifEnrichment is location and camera data recovered from image EXIF
// tags, used when the model service reports none.
type ExifEnrichment struct {
	Location *sites.Location
	Camera   *sites.CameraInfo
}

var exifTags = map[string]bool{
	"GPSLatitude":  true,
	"GPSLongitude": true,
	"Make":         true,
	"Model":        true,
}

// ExtractExif parses GPS coordinates and camera identity from raw image
// bytes. Graceful degradation: any parse failure yields nil, never an
// error.
func ExtractExif(data []byte) *ExifEnrichment {
	if len(data) == 0 {
		return nil
	}

	var (
		lat, lon         float64
		hasLat, hasLon   bool
		make_, modelName string
	)

	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return exifTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			switch ti.Tag {
			case "GPSLatitude":
				if v, ok := tagFloat(ti.Value); ok {
					lat, hasLat = v, true
				}
			case "GPSLongitude":
				if v, ok := tagFloat(ti.Value); ok {
					lon, hasLon = v, true
				}
			case "Make":
				make_, _ = ti.Value.(string)
			case "Model":
				modelName, _ = ti.Value.(string)
			}
			return nil
		},
	})
	if err != nil {
		return nil
	}

	enrichment := &ExifEnrichment{}
	if hasLat && hasLon {
		enrichment.Location = &sites.Location{Latitude: lat, Longitude: lon}
	}
	if make_ != "" || modelName != "" {
		enrichment.Camera = &sites.CameraInfo{Make: make_, Model: modelName}
	}

	if enrichment.Location == nil && enrichment.Camera == nil {
		return nil
	}
	return enrichment
}

func tagFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	}
	return 0, false
}
