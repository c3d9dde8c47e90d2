package analyses

import (
	"context"
	"log/slog"
	"time"

	"github.com/Manugarciaa/sentrix-intake/internal/validity"
	"github.com/Manugarciaa/sentrix-intake/pkg/lifecycle"
)

// Sweeper periodically scans for detections whose validity window is about
// to close and records an expiration alert for each, at most once per day
// per detection.
type Sweeper struct {
	sys      System
	logger   *slog.Logger
	interval time.Duration
	horizon  time.Duration
}

// NewSweeper creates a Sweeper checking every interval for detections
// expiring within horizon.
func NewSweeper(sys System, logger *slog.Logger, interval, horizon time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}
	return &Sweeper{
		sys:      sys,
		logger:   logger.With("system", "expiry-sweep"),
		interval: interval,
		horizon:  horizon,
	}
}

// Start runs the sweep loop until the lifecycle context is cancelled.
func (s *Sweeper) Start(lc *lifecycle.Coordinator) error {
	ctx := lc.Context()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("expiry sweep stopped")
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()

	return nil
}

// Sweep performs one scan. Alert failures are logged and skipped; the
// detection stays eligible for the next pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	detections, err := s.sys.ExpiringDetections(ctx, s.horizon)
	if err != nil {
		s.logger.Error("expiring detections query failed", "error", err)
		return
	}

	now := time.Now().UTC()
	alerted := 0
	for _, d := range detections {
		if !validity.ShouldAlert(d.ExpiresAt, d.LastExpirationAlertSent, now) {
			continue
		}

		if err := s.sys.MarkAlertSent(ctx, d.ID, now); err != nil {
			s.logger.Error("alert mark failed", "detection", d.ID, "error", err)
			continue
		}

		s.logger.Warn(
			"detection expiring soon",
			"detection", d.ID,
			"analysis", d.AnalysisID,
			"site_type", d.SiteType,
			"expires_at", d.ExpiresAt,
		)
		alerted++
	}

	if len(detections) > 0 {
		s.logger.Info("expiry sweep finished", "expiring", len(detections), "alerted", alerted)
	}
}
