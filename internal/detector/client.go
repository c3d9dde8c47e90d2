package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// HTTPClient calls the model service over HTTP. One POST per image: the
// image as a multipart file part plus the confidence threshold as a form
// field; JSON response.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates a client for the model service at endpoint with a
// per-call timeout.
func NewHTTPClient(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("system", "detector"),
	}
}

// Detect submits an image for detection. Timeouts, transport failures, and
// non-2xx responses are returned as *ServiceError.
func (c *HTTPClient) Detect(ctx context.Context, req Request) (*Response, error) {
	if req.ConfidenceThreshold < MinConfidenceThreshold || req.ConfidenceThreshold > MaxConfidenceThreshold {
		return nil, fmt.Errorf("%w: got %.2f", ErrThresholdRange, req.ConfidenceThreshold)
	}

	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		kind := KindTransport
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			kind = KindTimeout
		}
		return nil, &ServiceError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &ServiceError{Kind: KindBadStatus, StatusCode: resp.StatusCode}
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Kind: KindTransport, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.logger.Debug(
		"detection complete",
		"detections", len(result.Detections),
		"duration", time.Since(start),
	)

	return &result, nil
}

func encodeMultipart(req Request) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filename := req.Filename
	if filename == "" {
		filename = "image.jpg"
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, "", err
	}

	threshold := strconv.FormatFloat(req.ConfidenceThreshold, 'f', 2, 64)
	if err := writer.WriteField("confidence_threshold", threshold); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
