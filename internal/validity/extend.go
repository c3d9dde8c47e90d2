package validity

import (
	"errors"
	"fmt"
	"time"
)

// Extension errors.
var (
	ErrExtensionRange  = errors.New("extension days must be between 1 and 365")
	ErrExtensionReason = errors.New("extension reason is required")
)

// Extension is the audit record of a validity extension. NewExpiresAt is
// always strictly after OldExpiresAt; an extension never shortens validity.
type Extension struct {
	By           string    `json:"by"`
	At           time.Time `json:"at"`
	Reason       string    `json:"reason"`
	Days         int       `json:"days"`
	OldExpiresAt time.Time `json:"old_expires_at"`
	NewExpiresAt time.Time `json:"new_expires_at"`
}

// Extend moves an expiration timestamp forward by days and records who
// requested it and why.
func Extend(current time.Time, days int, by, reason string, now time.Time) (*Extension, error) {
	if days < MinDays || days > MaxDays {
		return nil, fmt.Errorf("%w: got %d", ErrExtensionRange, days)
	}
	if reason == "" {
		return nil, ErrExtensionReason
	}

	return &Extension{
		By:           by,
		At:           now,
		Reason:       reason,
		Days:         days,
		OldExpiresAt: current,
		NewExpiresAt: current.AddDate(0, 0, days),
	}, nil
}
