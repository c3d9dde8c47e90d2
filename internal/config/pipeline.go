package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvPipelineMaxConcurrent       = "SENTRIX_PIPELINE_MAX_CONCURRENT"
	EnvPipelineDedupWindow         = "SENTRIX_PIPELINE_DEDUP_WINDOW"
	EnvPipelinePerceptualDedup     = "SENTRIX_PIPELINE_PERCEPTUAL_DEDUP"
	EnvPipelinePerceptualThreshold = "SENTRIX_PIPELINE_PERCEPTUAL_THRESHOLD"
)

// PipelineConfig holds ingestion pipeline tuning parameters.
// DedupWindow is the number of recent analyses compared on each duplicate
// check. PerceptualThreshold is the maximum dHash distance treated as a
// near match when perceptual dedup is enabled.
type PipelineConfig struct {
	MaxConcurrent       int  `toml:"max_concurrent"`
	DedupWindow         int  `toml:"dedup_window"`
	PerceptualDedup     bool `toml:"perceptual_dedup"`
	PerceptualThreshold int  `toml:"perceptual_threshold"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
	if overlay.DedupWindow != 0 {
		c.DedupWindow = overlay.DedupWindow
	}
	if overlay.PerceptualDedup {
		c.PerceptualDedup = true
	}
	if overlay.PerceptualThreshold != 0 {
		c.PerceptualThreshold = overlay.PerceptualThreshold
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 10
	}
	if c.DedupWindow == 0 {
		c.DedupWindow = 100
	}
	if c.PerceptualThreshold == 0 {
		c.PerceptualThreshold = 10
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineMaxConcurrent); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = parsed
		}
	}
	if v := os.Getenv(EnvPipelineDedupWindow); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.DedupWindow = parsed
		}
	}
	if v := os.Getenv(EnvPipelinePerceptualDedup); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.PerceptualDedup = parsed
		}
	}
	if v := os.Getenv(EnvPipelinePerceptualThreshold); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.PerceptualThreshold = parsed
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be positive: %d", c.MaxConcurrent)
	}
	if c.DedupWindow < 1 {
		return fmt.Errorf("dedup_window must be positive: %d", c.DedupWindow)
	}
	if c.PerceptualThreshold < 0 {
		return fmt.Errorf("perceptual_threshold must be non-negative: %d", c.PerceptualThreshold)
	}
	return nil
}
