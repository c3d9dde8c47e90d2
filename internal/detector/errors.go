package detector

import (
	"errors"
	"fmt"
)

// ErrorKind classifies detector service failures.
type ErrorKind string

// Failure classes. All are terminal for the image being processed; the
// engine never retries.
const (
	KindTimeout   ErrorKind = "timeout"
	KindTransport ErrorKind = "transport"
	KindBadStatus ErrorKind = "bad_status"
)

// ServiceError is a failed call to the model service.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Kind == KindBadStatus {
		return fmt.Sprintf("detector service: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("detector service %s: %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsServiceError reports whether err is a detector service failure and
// returns it when so.
func IsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrThresholdRange indicates a confidence threshold outside [0.1, 1.0].
var ErrThresholdRange = errors.New("confidence threshold must be between 0.1 and 1.0")
