package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Manugarciaa/sentrix-intake/internal/detector"
)

const (
	EnvDetectorEndpoint  = "SENTRIX_DETECTOR_ENDPOINT"
	EnvDetectorTimeout   = "SENTRIX_DETECTOR_TIMEOUT"
	EnvDetectorThreshold = "SENTRIX_DETECTOR_CONFIDENCE_THRESHOLD"
)

// DetectorConfig holds model service connection parameters.
type DetectorConfig struct {
	Endpoint            string  `toml:"endpoint"`
	Timeout             string  `toml:"timeout"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *DetectorConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DetectorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DetectorConfig) Merge(overlay *DetectorConfig) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.ConfidenceThreshold != 0 {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
}

func (c *DetectorConfig) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8001/detect"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = 0.5
	}
}

func (c *DetectorConfig) loadEnv() {
	if v := os.Getenv(EnvDetectorEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvDetectorTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvDetectorThreshold); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.ConfidenceThreshold = parsed
		}
	}
}

func (c *DetectorConfig) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.ConfidenceThreshold < detector.MinConfidenceThreshold ||
		c.ConfidenceThreshold > detector.MaxConfidenceThreshold {
		return fmt.Errorf(
			"confidence_threshold %.2f outside [%.1f, %.1f]",
			c.ConfidenceThreshold,
			detector.MinConfidenceThreshold,
			detector.MaxConfidenceThreshold,
		)
	}
	return nil
}
