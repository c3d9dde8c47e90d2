package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
	"github.com/Manugarciaa/sentrix-intake/pkg/handlers"
	"github.com/Manugarciaa/sentrix-intake/pkg/routes"
)

// Upload form errors.
var (
	ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")
	ErrInvalidFile  = errors.New("invalid or missing file")
	ErrNoFiles      = errors.New("batch requires at least one file")
	errBadThreshold = errors.New("confidence_threshold must be a number between 0.1 and 1.0")
	errBadWeather   = errors.New("unrecognized weather condition")
)

// Handler provides the upload endpoints that feed the pipeline.
type Handler struct {
	pipeline      *Pipeline
	logger        *slog.Logger
	maxUploadSize int64
	maxConcurrent int64
}

// NewHandler creates a Handler with the given pipeline, logger, upload size
// limit, and batch concurrency bound.
func NewHandler(p *Pipeline, logger *slog.Logger, maxUploadSize int64, maxConcurrent int64) *Handler {
	return &Handler{
		pipeline:      p,
		logger:        logger.With("handler", "pipeline"),
		maxUploadSize: maxUploadSize,
		maxConcurrent: maxConcurrent,
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyses",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "POST", Pattern: "/batch", Handler: h.UploadBatch},
		},
	}
}

// Upload processes one multipart image upload through the pipeline.
// Optional form fields: confidence_threshold, weather.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	threshold, weather, err := parseOptions(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	result := h.pipeline.Run(r.Context(), UploadCommand{
		Image:               data,
		Filename:            header.Filename,
		ConfidenceThreshold: threshold,
		Weather:             weather,
	})

	handlers.RespondJSON(w, statusCode(result.Status), result)
}

// UploadBatch processes every file in the multipart "files" field through
// the pipeline concurrently and reports per-file outcomes.
func (h *Handler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	threshold, weather, err := parseOptions(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}

	cmds := make([]UploadCommand, 0, len(files))
	for _, header := range files {
		data, err := readPart(header)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
			return
		}
		cmds = append(cmds, UploadCommand{
			Image:               data,
			Filename:            header.Filename,
			ConfidenceThreshold: threshold,
			Weather:             weather,
		})
	}

	batch := h.pipeline.RunBatch(r.Context(), cmds, h.maxConcurrent)
	handlers.RespondJSON(w, http.StatusOK, batch)
}

func parseOptions(r *http.Request) (*float64, *sites.WeatherCondition, error) {
	var threshold *float64
	if v := r.FormValue("confidence_threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, errBadThreshold
		}
		threshold = &parsed
	}

	var weather *sites.WeatherCondition
	if v := r.FormValue("weather"); v != "" {
		parsed, ok := sites.ParseWeatherCondition(v)
		if !ok {
			return nil, nil, errBadWeather
		}
		weather = &parsed
	}

	return threshold, weather, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func statusCode(s Status) int {
	switch s {
	case StatusCompleted:
		return http.StatusCreated
	case StatusDuplicate:
		return http.StatusOK
	default:
		return http.StatusUnprocessableEntity
	}
}
