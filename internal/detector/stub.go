package detector

import "context"

// Stub is a canned-response Client for environments without a reachable
// model service. It is selected explicitly at construction time, never by
// runtime fallback.
type Stub struct {
	Response *Response
	Err      error
}

// Detect returns the configured response or error without any I/O.
func (s *Stub) Detect(context.Context, Request) (*Response, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Response != nil {
		return s.Response, nil
	}
	return &Response{Detections: []RawDetection{}}, nil
}
