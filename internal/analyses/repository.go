package analyses

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Manugarciaa/sentrix-intake/internal/dedup"
	"github.com/Manugarciaa/sentrix-intake/internal/sites"
	"github.com/Manugarciaa/sentrix-intake/internal/validity"
	"github.com/Manugarciaa/sentrix-intake/pkg/pagination"
	"github.com/Manugarciaa/sentrix-intake/pkg/query"
	"github.com/Manugarciaa/sentrix-intake/pkg/repository"
	"github.com/Manugarciaa/sentrix-intake/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

const insertAnalysisSQL = `
	INSERT INTO analyses(
		id, filename, content_signature, signature_size_bytes,
		image_url, storage_key, annotated_image_url, annotated_storage_key,
		total_detections, risk_level, risk_score,
		has_location, latitude, longitude, camera_make, camera_model,
		is_duplicate_reference, reference_analysis_id, storage_saved_bytes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING created_at`

func (r *repo) Create(ctx context.Context, a *Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	args := []any{
		a.ID,
		a.Filename,
		a.ContentSignature,
		a.SignatureSizeBytes,
		a.ImageURL,
		a.StorageKey,
		a.AnnotatedImageURL,
		a.AnnotatedStorageKey,
		a.TotalDetections,
		a.RiskLevel.Wire(),
		a.RiskScore,
		a.HasLocation,
		a.Latitude,
		a.Longitude,
		a.CameraMake,
		a.CameraModel,
		a.IsDuplicateReference,
		a.ReferenceAnalysisID,
		a.StorageSavedBytes,
	}

	if err := r.db.QueryRowContext(ctx, insertAnalysisSQL, args...).Scan(&a.CreatedAt); err != nil {
		return repository.MapError(fmt.Errorf("insert analysis: %w", err), ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis created", "id", a.ID, "filename", a.Filename)
	return nil
}

// newReferenceAnalysis builds the analysis row for a duplicate upload.
// Reference rows never carry detections, so risk stays at the floor.
func newReferenceAnalysis(cmd ReferenceCommand) *Analysis {
	saved := cmd.StorageSavedBytes
	refID := cmd.ReferenceAnalysisID

	return &Analysis{
		ID:                   uuid.New(),
		Filename:             cmd.Filename,
		ContentSignature:     cmd.ContentSignature,
		SignatureSizeBytes:   cmd.SignatureSizeBytes,
		ImageURL:             cmd.ReferenceImageURL,
		RiskLevel:            sites.RiskMinimal,
		IsDuplicateReference: true,
		ReferenceAnalysisID:  &refID,
		StorageSavedBytes:    &saved,
	}
}

func (r *repo) CreateReference(ctx context.Context, cmd ReferenceCommand) (*Analysis, error) {
	a := newReferenceAnalysis(cmd)

	if err := r.Create(ctx, a); err != nil {
		return nil, err
	}

	r.logger.Info(
		"duplicate reference recorded",
		"id", a.ID,
		"reference", cmd.ReferenceAnalysisID,
		"saved_bytes", cmd.StorageSavedBytes,
	)
	return a, nil
}

const insertDetectionSQL = `
	INSERT INTO detections(
		id, analysis_id, site_type, confidence, risk_level,
		polygon, mask_area, persistence_type, validity_period_days,
		expires_at, is_weather_dependent, validation_status, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// InsertDetections persists each detection row individually and returns the
// number inserted. A failing row is logged and skipped; the analysis row is
// never rolled back over a partial detection failure.
func (r *repo) InsertDetections(ctx context.Context, detections []Detection) int {
	inserted := 0

	for i := range detections {
		d := &detections[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}

		_, err := r.db.ExecContext(ctx, insertDetectionSQL,
			d.ID,
			d.AnalysisID,
			d.SiteType.Wire(),
			d.Confidence,
			d.RiskLevel.Wire(),
			marshalPolygon(d.Polygon),
			d.MaskArea,
			d.PersistenceType,
			d.ValidityPeriodDays,
			d.ExpiresAt,
			d.IsWeatherDependent,
			d.ValidationStatus,
			d.CreatedAt,
		)
		if err != nil {
			r.logger.Error(
				"detection insert failed, continuing",
				"analysis", d.AnalysisID,
				"site_type", d.SiteType,
				"error", err,
			)
			continue
		}
		inserted++
	}

	return inserted
}

func (r *repo) UpdateRisk(ctx context.Context, id uuid.UUID, update RiskUpdate) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE analyses SET risk_level = $1, risk_score = $2, total_detections = $3 WHERE id = $4",
		update.Level.Wire(), update.Score, update.TotalDetections, id,
	)
	if err != nil {
		return repository.MapError(fmt.Errorf("update analysis risk: %w", err), ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Recent(ctx context.Context, limit int) ([]dedup.PriorAnalysis, error) {
	q := `
		SELECT id, content_signature, signature_size_bytes, is_duplicate_reference, image_url
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent analyses: %w", err)
	}
	defer rows.Close()

	prior := make([]dedup.PriorAnalysis, 0, limit)
	for rows.Next() {
		var (
			p      dedup.PriorAnalysis
			digest string
			size   int64
		)
		if err := rows.Scan(&p.ID, &digest, &size, &p.IsDuplicateReference, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan recent analysis: %w", err)
		}

		sig, err := dedup.ParseSignature(digest, size)
		if err != nil {
			// A corrupt stored signature must not break dedup for the
			// rest of the window.
			r.logger.Warn("skipping analysis with invalid signature", "id", p.ID, "error", err)
			continue
		}
		p.Signature = sig
		prior = append(prior, p)
	}

	return prior, rows.Err()
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindDetections(ctx context.Context, analysisID uuid.UUID) ([]Detection, error) {
	q, args := query.
		NewBuilder(detectionProjection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("AnalysisID", analysisID).
		Build()

	detections, err := repository.QueryMany(ctx, r.db, q, args, scanDetection)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	return detections, nil
}

func (r *repo) FindDetection(ctx context.Context, id uuid.UUID) (*Detection, error) {
	q, args := query.NewBuilder(detectionProjection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDetection)
	if err != nil {
		return nil, repository.MapError(err, ErrDetectionNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "ContentSignature")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	// Detections cascade with the analysis row.
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM analyses WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range []string{a.StorageKey, deref(a.AnnotatedStorageKey)} {
		if key == "" {
			continue
		}
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("blob delete failed after row delete", "key", key, "error", delErr)
		}
	}

	r.logger.Info("analysis deleted", "id", id)
	return nil
}

func (r *repo) ValidateDetection(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Detection, error) {
	if cmd.ValidatedBy == "" {
		return nil, ErrMissingValidator
	}

	d, err := r.FindDetection(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.ValidatedAt != nil {
		return nil, ErrAlreadyValidated
	}

	now := time.Now().UTC()
	status := statusFor(cmd.Approve)

	expiresAt := d.ExpiresAt
	validityDays := d.ValidityPeriodDays
	if cmd.Approve {
		// Expert confirmation earns the validation bonus; the window is
		// recomputed from the original detection time and only applied
		// when it moves expiry forward.
		in := validity.Input{
			SiteType:    d.SiteType,
			Risk:        d.RiskLevel,
			Confidence:  d.Confidence,
			IsValidated: true,
			At:          d.CreatedAt,
		}
		if recomputed := validity.ExpiresAt(d.CreatedAt, in); recomputed.After(expiresAt) {
			expiresAt = recomputed
			validityDays = validity.Days(in)
		}
	}

	err = repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE detections
		 SET validation_status = $1, validated_by = $2, validated_at = $3,
		     expires_at = $4, validity_period_days = $5
		 WHERE id = $6`,
		status, cmd.ValidatedBy, now, expiresAt, validityDays, id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrDetectionNotFound, ErrDuplicate)
	}

	r.logger.Info("detection validated", "id", id, "status", status, "by", cmd.ValidatedBy)
	return r.FindDetection(ctx, id)
}

func (r *repo) ExtendDetection(ctx context.Context, id uuid.UUID, cmd ExtendCommand) (*Detection, error) {
	d, err := r.FindDetection(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := validity.Extend(d.ExpiresAt, cmd.Days, cmd.By, cmd.Reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE detections SET expires_at = $1, validity_period_days = validity_period_days + $2 WHERE id = $3",
			ext.NewExpiresAt, ext.Days, id,
		); err != nil {
			return struct{}{}, err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO validity_extensions(id, detection_id, extended_by, reason, days, old_expires_at, new_expires_at, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), id, ext.By, ext.Reason, ext.Days, ext.OldExpiresAt, ext.NewExpiresAt, ext.At,
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrDetectionNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"detection validity extended",
		"id", id,
		"days", ext.Days,
		"by", ext.By,
		"new_expires_at", ext.NewExpiresAt,
	)
	return r.FindDetection(ctx, id)
}

func (r *repo) ExpiringDetections(ctx context.Context, within time.Duration) ([]Detection, error) {
	cutoff := time.Now().UTC().Add(within)

	q := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE d.expires_at > NOW() AND d.expires_at <= $1
		ORDER BY d.expires_at ASC`,
		detectionProjection.Columns(),
		detectionProjection.Table(),
	)

	detections, err := repository.QueryMany(ctx, r.db, q, []any{cutoff}, scanDetection)
	if err != nil {
		return nil, fmt.Errorf("query expiring detections: %w", err)
	}
	return detections, nil
}

func (r *repo) MarkAlertSent(ctx context.Context, detectionID uuid.UUID, at time.Time) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE detections SET last_expiration_alert_sent = $1 WHERE id = $2",
		at, detectionID,
	)
	if err != nil {
		return repository.MapError(err, ErrDetectionNotFound, ErrDuplicate)
	}
	return nil
}

func statusFor(approve bool) string {
	if approve {
		return string(sites.ValidationValidated)
	}
	return string(sites.ValidationRejected)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
