package validity

import "time"

// StatusLevel buckets how much of a detection's validity window remains.
type StatusLevel string

// Status levels from fully valid to expired.
const (
	StatusValid          StatusLevel = "VALID"
	StatusMediumValidity StatusLevel = "MEDIUM_VALIDITY"
	StatusLowValidity    StatusLevel = "LOW_VALIDITY"
	StatusExpiringSoon   StatusLevel = "EXPIRING_SOON"
	StatusExpired        StatusLevel = "EXPIRED"
)

// Status describes the current temporal state of a detection relative to
// its expiration timestamp.
type Status struct {
	IsExpired            bool        `json:"is_expired"`
	IsExpiringSoon       bool        `json:"is_expiring_soon"`
	RemainingDays        *int        `json:"remaining_days"`
	Level                StatusLevel `json:"status"`
	ValidityPercentage   int         `json:"validity_percentage"`
	RequiresRevalidation bool        `json:"requires_revalidation"`
}

// ComputeStatus evaluates the validity of a detection expiring at expiresAt
// as of now. The same inputs always yield the same status.
func ComputeStatus(expiresAt, now time.Time) Status {
	expired := !now.Before(expiresAt)

	remaining := 0
	if !expired {
		remaining = int(expiresAt.Sub(now).Hours() / 24)
	}

	var level StatusLevel
	var pct int
	switch {
	case expired:
		level, pct = StatusExpired, 0
	case remaining <= 1:
		level, pct = StatusExpiringSoon, 10
	case remaining <= 3:
		level, pct = StatusLowValidity, 30
	case remaining <= 7:
		level, pct = StatusMediumValidity, 60
	default:
		level, pct = StatusValid, 100
	}

	return Status{
		IsExpired:            expired,
		IsExpiringSoon:       level == StatusExpiringSoon,
		RemainingDays:        &remaining,
		Level:                level,
		ValidityPercentage:   pct,
		RequiresRevalidation: expired || remaining <= 1,
	}
}

// alertWindow is the minimum interval between expiration alerts for the
// same detection.
const alertWindow = 24 * time.Hour

// ShouldAlert reports whether an expiration alert is due: exactly one day of
// validity remains and no alert was sent within the last 24 hours.
func ShouldAlert(expiresAt time.Time, lastAlert *time.Time, now time.Time) bool {
	s := ComputeStatus(expiresAt, now)
	if s.IsExpired || s.RemainingDays == nil || *s.RemainingDays != 1 {
		return false
	}
	return lastAlert == nil || now.Sub(*lastAlert) > alertWindow
}
