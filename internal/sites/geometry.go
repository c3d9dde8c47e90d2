package sites

// Point is a 2-D pixel coordinate within an analyzed image.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is the ordered outline of a detected region.
type Polygon []Point

// Location is a GPS coordinate attached to an analysis, either reported by
// the detector service or extracted from image EXIF data.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CameraInfo identifies the device that captured an image.
type CameraInfo struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}
