package dedup

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// DuplicateType classifies how a duplicate was matched.
type DuplicateType string

// Duplicate classifications.
const (
	DuplicateNone  DuplicateType = "NONE"
	DuplicateExact DuplicateType = "EXACT"
	DuplicateNear  DuplicateType = "NEAR"
)

// Result is the outcome of a duplicate check. Only an EXACT match with
// ShouldStoreSeparately=false short-circuits the ingestion pipeline.
type Result struct {
	IsDuplicate           bool          `json:"is_duplicate"`
	Type                  DuplicateType `json:"duplicate_type"`
	Confidence            float64       `json:"confidence"`
	AnalysisID            *uuid.UUID    `json:"duplicate_analysis_id,omitempty"`
	ReferenceImageURL     string        `json:"reference_image_url,omitempty"`
	ShouldStoreSeparately bool          `json:"should_store_separately"`
}

// PriorAnalysis is the slice of a stored analysis the engine needs for
// signature comparison.
type PriorAnalysis struct {
	ID                   uuid.UUID
	Signature            ContentSignature
	IsDuplicateReference bool
	ImageURL             string
}

// RecentSource supplies a bounded, point-in-time window of recent analyses.
// Concurrent uploads of the same content within one window may both pass as
// non-duplicate; that race is accepted rather than locked around.
type RecentSource interface {
	Recent(ctx context.Context, limit int) ([]PriorAnalysis, error)
}

// Engine checks image content against recent analyses. Remember feeds a
// completed analysis back into the engine so later checks can match it.
type Engine interface {
	Check(ctx context.Context, sig ContentSignature, image []byte) Result
	Remember(id uuid.UUID, image []byte)
}

type engine struct {
	source     RecentSource
	perceptual *PerceptualFilter
	window     int
	logger     *slog.Logger
}

// Option configures the engine.
type Option func(*engine)

// WithPerceptual enables advisory near-duplicate matching.
func WithPerceptual(f *PerceptualFilter) Option {
	return func(e *engine) { e.perceptual = f }
}

// New creates a deduplication engine reading a window of recent analyses
// from source.
func New(source RecentSource, window int, logger *slog.Logger, opts ...Option) Engine {
	e := &engine{
		source: source,
		window: window,
		logger: logger.With("system", "dedup"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func notDuplicate() Result {
	return Result{
		Type:                  DuplicateNone,
		ShouldStoreSeparately: true,
	}
}

// Check compares sig against the recent-analyses window. Lookup failures
// degrade to a non-duplicate result; they never abort the pipeline.
func (e *engine) Check(ctx context.Context, sig ContentSignature, image []byte) Result {
	recent, err := e.source.Recent(ctx, e.window)
	if err != nil {
		e.logger.Warn("recent-analyses lookup failed, treating as unique", "error", err)
		return notDuplicate()
	}

	for _, prior := range recent {
		// Reference analyses are skipped so duplicate chains always point
		// at the analysis that actually ran detection.
		if prior.IsDuplicateReference {
			continue
		}
		if sig.Equal(prior.Signature) {
			id := prior.ID
			return Result{
				IsDuplicate:       true,
				Type:              DuplicateExact,
				Confidence:        1.0,
				AnalysisID:        &id,
				ReferenceImageURL: prior.ImageURL,
			}
		}
	}

	if e.perceptual != nil && len(image) > 0 {
		if match, ok := e.perceptual.Match(image); ok {
			id := match
			return Result{
				IsDuplicate:           true,
				Type:                  DuplicateNear,
				Confidence:            0.9,
				AnalysisID:            &id,
				ShouldStoreSeparately: true,
			}
		}
	}

	return notDuplicate()
}

// Remember records a processed analysis for perceptual matching. Exact
// matching reads the persisted window, so without the perceptual filter
// this is a no-op.
func (e *engine) Remember(id uuid.UUID, image []byte) {
	if e.perceptual == nil || len(image) == 0 {
		return
	}
	e.perceptual.Remember(id, image)
}

// Disabled is a no-op engine that treats every image as unique. It is
// selected at construction time when deduplication is turned off.
type Disabled struct{}

// Check always reports a non-duplicate result.
func (Disabled) Check(context.Context, ContentSignature, []byte) Result {
	return notDuplicate()
}

// Remember discards the analysis.
func (Disabled) Remember(uuid.UUID, []byte) {}
