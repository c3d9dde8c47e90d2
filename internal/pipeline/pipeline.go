// Package pipeline orchestrates image ingestion: signature computation,
// duplicate detection, the model service call, blob storage, persistence,
// and detection enrichment. A run always produces a Result; failures are
// reported in the result, never as an error, so one bad upload cannot sink
// a batch.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Manugarciaa/sentrix-intake/internal/analyses"
	"github.com/Manugarciaa/sentrix-intake/internal/dedup"
	"github.com/Manugarciaa/sentrix-intake/internal/detector"
	"github.com/Manugarciaa/sentrix-intake/internal/metrics"
	"github.com/Manugarciaa/sentrix-intake/internal/risk"
	"github.com/Manugarciaa/sentrix-intake/internal/sites"
	"github.com/Manugarciaa/sentrix-intake/internal/validity"
	"github.com/Manugarciaa/sentrix-intake/pkg/storage"
)

// Status is the terminal outcome of a pipeline run.
type Status string

// Terminal statuses.
const (
	StatusCompleted Status = "completed"
	StatusDuplicate Status = "duplicate"
	StatusFailed    Status = "failed"
)

// Failure reasons reported on failed results.
const (
	ReasonEmptyImage    = "empty_image"
	ReasonBadThreshold  = "invalid_confidence_threshold"
	ReasonDetector      = "detector_unavailable"
	ReasonStorage       = "storage_failed"
	ReasonPersist       = "persist_failed"
	ReasonDuplicateRace = "duplicate_conflict"
)

// DefaultConfidenceThreshold is used when an upload does not carry one.
const DefaultConfidenceThreshold = 0.5

// Store is the blob storage surface the pipeline needs.
type Store interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// UploadCommand carries one image into the pipeline.
type UploadCommand struct {
	Image               []byte
	Filename            string
	ConfidenceThreshold *float64
	Weather             *sites.WeatherCondition
}

// Result is the outcome of one pipeline run. Analysis is set for completed
// and duplicate runs; Detections only for completed runs. Warnings carry
// non-fatal degradations such as failed compensation deletes.
type Result struct {
	Status     Status                `json:"status"`
	Reason     string                `json:"reason,omitempty"`
	Analysis   *analyses.Analysis    `json:"analysis,omitempty"`
	Detections []analyses.Detection  `json:"detections,omitempty"`
	Duplicate  *dedup.Result         `json:"duplicate,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Pipeline coordinates the ingestion stages.
type Pipeline struct {
	detector  detector.Client
	dedup     dedup.Engine
	store     Store
	analyses  analyses.System
	metrics   *metrics.Metrics
	logger    *slog.Logger
	threshold float64
}

// New creates a Pipeline. A nil metrics value disables instrumentation.
func New(
	client detector.Client,
	engine dedup.Engine,
	store Store,
	sys analyses.System,
	m *metrics.Metrics,
	logger *slog.Logger,
	threshold float64,
) *Pipeline {
	if threshold < detector.MinConfidenceThreshold || threshold > detector.MaxConfidenceThreshold {
		threshold = DefaultConfidenceThreshold
	}
	return &Pipeline{
		detector:  client,
		dedup:     engine,
		store:     store,
		analyses:  sys,
		metrics:   m,
		logger:    logger.With("system", "pipeline"),
		threshold: threshold,
	}
}

// Run processes a single upload through every stage and returns its result.
func (p *Pipeline) Run(ctx context.Context, cmd UploadCommand) Result {
	started := time.Now()
	result := p.run(ctx, cmd)
	p.metrics.RecordRun(string(result.Status), time.Since(started))

	p.logger.Info(
		"pipeline run finished",
		"filename", cmd.Filename,
		"status", result.Status,
		"reason", result.Reason,
	)
	return result
}

func (p *Pipeline) run(ctx context.Context, cmd UploadCommand) Result {
	if len(cmd.Image) == 0 {
		return failed(ReasonEmptyImage, nil)
	}

	threshold := p.threshold
	if cmd.ConfidenceThreshold != nil {
		t := *cmd.ConfidenceThreshold
		if t < detector.MinConfidenceThreshold || t > detector.MaxConfidenceThreshold {
			return failed(ReasonBadThreshold, detector.ErrThresholdRange)
		}
		threshold = t
	}

	sig := dedup.Signature(cmd.Image)

	check := p.dedup.Check(ctx, sig, cmd.Image)
	if check.IsDuplicate && !check.ShouldStoreSeparately {
		return p.recordDuplicate(ctx, cmd, sig, check)
	}
	if check.IsDuplicate {
		// Near match: the image still goes through the full pipeline,
		// the match is only reported alongside the result.
		p.metrics.RecordDedupHit(string(check.Type), 0)
	}

	detectStart := time.Now()
	resp, err := p.detector.Detect(ctx, detector.Request{
		Image:               cmd.Image,
		Filename:            cmd.Filename,
		ConfidenceThreshold: threshold,
	})
	p.metrics.RecordDetectorCall(time.Since(detectStart))
	if err != nil {
		var svcErr *detector.ServiceError
		if errors.As(err, &svcErr) {
			p.metrics.RecordDetectorError(string(svcErr.Kind))
		}
		p.logger.Error("model service call failed", "filename", cmd.Filename, "error", err)
		return failed(ReasonDetector, err)
	}

	analysisID := uuid.New()

	originalKey := blobKey(analysisID, cmd.Filename)
	contentType := http.DetectContentType(cmd.Image)
	obj, err := p.store.Upload(ctx, originalKey, bytes.NewReader(cmd.Image), contentType)
	if err != nil {
		p.logger.Error("image upload failed", "key", originalKey, "error", err)
		return failed(ReasonStorage, err)
	}

	var (
		annotatedKey *string
		annotatedURL *string
		warnings     []string
	)
	if annotated := resp.AnnotatedImage(); annotated != nil {
		key := blobKey(analysisID, "annotated_"+cmd.Filename)
		annotatedObj, err := p.store.Upload(ctx, key, bytes.NewReader(annotated), "image/jpeg")
		if err != nil {
			// The annotated render is derived data; losing it degrades
			// the analysis but does not fail the run.
			p.logger.Warn("annotated image upload failed", "key", key, "error", err)
			warnings = append(warnings, fmt.Sprintf("annotated image not stored: %v", err))
		} else {
			annotatedKey = &key
			annotatedURL = &annotatedObj.URL
		}
	}

	findings := make([]detector.Finding, 0, len(resp.Detections))
	siteTypes := make([]sites.SiteType, 0, len(resp.Detections))
	for _, raw := range resp.Detections {
		f := detector.Normalize(raw, p.logger)
		findings = append(findings, f)
		siteTypes = append(siteTypes, f.SiteType)
	}

	assessment := risk.Assess(siteTypes)

	a := &analyses.Analysis{
		ID:                 analysisID,
		Filename:           cmd.Filename,
		ContentSignature:   sig.Hex(),
		SignatureSizeBytes: sig.SizeBytes,
		ImageURL:           obj.URL,
		StorageKey:         originalKey,
		AnnotatedImageURL:  annotatedURL,
		AnnotatedStorageKey: annotatedKey,
		TotalDetections:    len(findings),
		RiskLevel:          assessment.Level,
		RiskScore:          assessment.Score,
	}
	applyLocation(a, resp, cmd.Image)

	if err := p.analyses.Create(ctx, a); err != nil {
		keys := []string{originalKey}
		if annotatedKey != nil {
			keys = append(keys, *annotatedKey)
		}
		warnings = append(warnings, p.compensate(ctx, keys)...)

		reason := ReasonPersist
		if errors.Is(err, analyses.ErrDuplicate) {
			reason = ReasonDuplicateRace
		}
		p.logger.Error("analysis persist failed", "id", analysisID, "error", err)

		result := failed(reason, err)
		result.Warnings = warnings
		return result
	}

	p.dedup.Remember(analysisID, cmd.Image)

	detections := p.buildDetections(a, findings, cmd.Weather)
	inserted := p.analyses.InsertDetections(ctx, detections)
	for _, d := range detections {
		p.metrics.RecordDetection(d.SiteType.Wire())
	}

	if inserted != len(detections) {
		warnings = append(warnings, fmt.Sprintf("%d of %d detections persisted", inserted, len(detections)))
		update := analyses.RiskUpdate{
			Level:           assessment.Level,
			Score:           assessment.Score,
			TotalDetections: inserted,
		}
		if err := p.analyses.UpdateRisk(ctx, analysisID, update); err != nil {
			p.logger.Warn("detection count correction failed", "id", analysisID, "error", err)
		}
		a.TotalDetections = inserted
	}

	var dup *dedup.Result
	if check.IsDuplicate {
		dup = &check
	}

	return Result{
		Status:     StatusCompleted,
		Analysis:   a,
		Detections: detections,
		Duplicate:  dup,
		Warnings:   warnings,
	}
}

func (p *Pipeline) recordDuplicate(
	ctx context.Context,
	cmd UploadCommand,
	sig dedup.ContentSignature,
	check dedup.Result,
) Result {
	saved := int64(len(cmd.Image))
	p.metrics.RecordDedupHit(string(check.Type), saved)

	ref, err := p.analyses.CreateReference(ctx, analyses.ReferenceCommand{
		Filename:            cmd.Filename,
		ContentSignature:    sig.Hex(),
		SignatureSizeBytes:  sig.SizeBytes,
		ReferenceAnalysisID: *check.AnalysisID,
		ReferenceImageURL:   check.ReferenceImageURL,
		StorageSavedBytes:   saved,
	})
	if err != nil {
		p.logger.Error("duplicate reference persist failed", "filename", cmd.Filename, "error", err)
		return failed(ReasonPersist, err)
	}

	return Result{
		Status:    StatusDuplicate,
		Analysis:  ref,
		Duplicate: &check,
	}
}

// buildDetections converts normalized findings into persistable detections
// with computed validity windows.
func (p *Pipeline) buildDetections(
	a *analyses.Analysis,
	findings []detector.Finding,
	weather *sites.WeatherCondition,
) []analyses.Detection {
	now := a.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	detections := make([]analyses.Detection, 0, len(findings))
	for _, f := range findings {
		in := validity.Input{
			SiteType:   f.SiteType,
			Risk:       f.Risk,
			Weather:    weather,
			Confidence: f.Confidence,
			At:         now,
		}
		days := validity.Days(in)

		detections = append(detections, analyses.Detection{
			ID:                 uuid.New(),
			AnalysisID:         a.ID,
			SiteType:           f.SiteType,
			Confidence:         f.Confidence,
			RiskLevel:          f.Risk,
			Polygon:            f.Polygon,
			MaskArea:           f.MaskArea,
			PersistenceType:    f.SiteType.Persistence(),
			ValidityPeriodDays: days,
			ExpiresAt:          now.AddDate(0, 0, days),
			IsWeatherDependent: f.SiteType.Persistence().WeatherDependent(),
			ValidationStatus:   sites.ValidationPending,
			CreatedAt:          now,
		})
	}

	return detections
}

// compensate deletes uploaded blobs after a failed persist. Deletes are
// best effort: a failure is reported as a warning, the original error
// stays the run's failure cause.
func (p *Pipeline) compensate(ctx context.Context, keys []string) []string {
	var warnings []string
	for _, key := range keys {
		if err := p.store.Delete(ctx, key); err != nil {
			p.logger.Warn("compensating delete failed", "key", key, "error", err)
			warnings = append(warnings, fmt.Sprintf("orphaned blob %s: %v", key, err))
		}
	}
	return warnings
}

// applyLocation copies location and camera identity onto the analysis,
// preferring the model service's values and falling back to EXIF tags in
// the image itself.
func applyLocation(a *analyses.Analysis, resp *detector.Response, image []byte) {
	location := resp.Location
	camera := resp.Camera

	if location == nil || camera == nil {
		if exif := detector.ExtractExif(image); exif != nil {
			if location == nil {
				location = exif.Location
			}
			if camera == nil {
				camera = exif.Camera
			}
		}
	}

	if location != nil {
		a.HasLocation = true
		a.Latitude = &location.Latitude
		a.Longitude = &location.Longitude
	}
	if camera != nil {
		if camera.Make != "" {
			a.CameraMake = &camera.Make
		}
		if camera.Model != "" {
			a.CameraModel = &camera.Model
		}
	}
}

func failed(reason string, err error) Result {
	r := Result{Status: StatusFailed, Reason: reason}
	if err != nil {
		r.Warnings = []string{err.Error()}
	}
	return r
}

func blobKey(analysisID uuid.UUID, filename string) string {
	name := strings.ReplaceAll(filename, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "upload"
	}
	return analysisID.String() + "/" + name
}
