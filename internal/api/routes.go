package api

import (
	"net/http"

	"github.com/Manugarciaa/sentrix-intake/internal/analyses"
	"github.com/Manugarciaa/sentrix-intake/internal/config"
	"github.com/Manugarciaa/sentrix-intake/internal/pipeline"
	"github.com/Manugarciaa/sentrix-intake/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	analysesHandler := analyses.NewHandler(
		domain.Analyses,
		runtime.Logger,
		runtime.Pagination,
	)

	pipelineHandler := pipeline.NewHandler(
		domain.Pipeline,
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
		int64(runtime.Pipeline.MaxConcurrent),
	)

	imagesHandler := newImageHandler(runtime.Storage, runtime.Logger, cfg.Storage.MaxListSize)

	groups := append(
		analysesHandler.Routes(),
		pipelineHandler.Routes(),
		imagesHandler.routes(),
	)
	routes.Register(mux, groups...)
}
