package analyses

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Manugarciaa/sentrix-intake/internal/dedup"
	"github.com/Manugarciaa/sentrix-intake/internal/sites"
	"github.com/Manugarciaa/sentrix-intake/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
// Create, CreateReference, InsertDetections, and UpdateRisk serve the
// ingestion pipeline; the rest serve the HTTP surface and expiry sweep.
type System interface {
	Create(ctx context.Context, a *Analysis) error
	CreateReference(ctx context.Context, cmd ReferenceCommand) (*Analysis, error)
	InsertDetections(ctx context.Context, detections []Detection) int
	UpdateRisk(ctx context.Context, id uuid.UUID, update RiskUpdate) error

	// Recent implements dedup.RecentSource with a bounded snapshot of the
	// newest analyses.
	Recent(ctx context.Context, limit int) ([]dedup.PriorAnalysis, error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	FindDetections(ctx context.Context, analysisID uuid.UUID) ([]Detection, error)
	FindDetection(ctx context.Context, id uuid.UUID) (*Detection, error)
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)
	Delete(ctx context.Context, id uuid.UUID) error

	ValidateDetection(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Detection, error)
	ExtendDetection(ctx context.Context, id uuid.UUID, cmd ExtendCommand) (*Detection, error)

	ExpiringDetections(ctx context.Context, within time.Duration) ([]Detection, error)
	MarkAlertSent(ctx context.Context, detectionID uuid.UUID, at time.Time) error
}

// RiskUpdate carries the aggregate risk fields written back onto an
// analysis after enrichment.
type RiskUpdate struct {
	Level           sites.RiskLevel
	Score           float64
	TotalDetections int
}
