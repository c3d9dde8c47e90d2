package api

import (
	"github.com/Manugarciaa/sentrix-intake/internal/analyses"
	"github.com/Manugarciaa/sentrix-intake/internal/dedup"
	"github.com/Manugarciaa/sentrix-intake/internal/detector"
	"github.com/Manugarciaa/sentrix-intake/internal/pipeline"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
	Detector detector.Client
	Dedup    dedup.Engine
	Pipeline *pipeline.Pipeline
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	detectorClient := detector.NewHTTPClient(
		runtime.Detector.Endpoint,
		runtime.Detector.TimeoutDuration(),
		runtime.Logger,
	)

	var opts []dedup.Option
	if runtime.Pipeline.PerceptualDedup {
		opts = append(opts, dedup.WithPerceptual(
			dedup.NewPerceptualFilter(runtime.Pipeline.PerceptualThreshold),
		))
	}
	engine := dedup.New(
		analysesSystem,
		runtime.Pipeline.DedupWindow,
		runtime.Logger,
		opts...,
	)

	pipelineSystem := pipeline.New(
		detectorClient,
		engine,
		runtime.Storage,
		analysesSystem,
		runtime.Metrics,
		runtime.Logger,
		runtime.Detector.ConfidenceThreshold,
	)

	return &Domain{
		Analyses: analysesSystem,
		Detector: detectorClient,
		Dedup:    engine,
		Pipeline: pipelineSystem,
	}
}
