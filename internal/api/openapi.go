package api

import (
	"github.com/Manugarciaa/sentrix-intake/pkg/openapi"
)

// buildSpec constructs the OpenAPI document for the intake API.
func buildSpec(basePath, version string) *openapi.Spec {
	spec := openapi.NewSpec("Sentrix Intake API", version)
	spec.SetDescription("Breeding site detection intake: image analysis, deduplication, and detection lifecycle tracking.")
	spec.AddServer(basePath)

	errRef := openapi.ResponseRef
	jsonBody := func(desc string) *openapi.Response {
		return &openapi.Response{Description: desc, Content: map[string]*openapi.MediaType{
			"application/json": {Schema: &openapi.Schema{Type: "object"}},
		}}
	}
	idParam := openapi.PathParam("id", "Resource identifier")

	spec.Paths["/analyses"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List analyses",
			Tags:    []string{"analyses"},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Paginated analyses"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload an image for analysis",
			Description: "Runs the full ingestion pipeline: dedup check, detection, storage, persistence, enrichment.",
			Tags:        []string{"pipeline"},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {Schema: &openapi.Schema{Type: "object"}},
				},
			},
			Responses: map[int]*openapi.Response{
				201: jsonBody("Analysis completed"),
				200: jsonBody("Duplicate of a prior analysis"),
				422: jsonBody("Pipeline run failed"),
				400: errRef("BadRequest"),
			},
		},
	}

	spec.Paths["/analyses/batch"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Upload a batch of images",
			Tags:    []string{"pipeline"},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {Schema: &openapi.Schema{Type: "object"}},
				},
			},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Per-file pipeline outcomes"),
				400: errRef("BadRequest"),
			},
		},
	}

	spec.Paths["/analyses/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Search analyses",
			Tags:    []string{"analyses"},
			RequestBody: &openapi.RequestBody{
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Ref: "#/components/schemas/PageRequest"}},
				},
			},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Paginated analyses"),
			},
		},
	}

	spec.Paths["/analyses/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an analysis",
			Tags:       []string{"analyses"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Analysis"),
				404: errRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete an analysis and its stored images",
			Tags:       []string{"analyses"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: errRef("NotFound"),
			},
		},
	}

	spec.Paths["/analyses/{id}/detections"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List detections of an analysis",
			Tags:       []string{"detections"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Detections"),
				404: errRef("NotFound"),
			},
		},
	}

	spec.Paths["/detections/expiring"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List detections expiring within a horizon",
			Tags:    []string{"detections"},
			Parameters: []*openapi.Parameter{{
				Name:   "within_days",
				In:     "query",
				Schema: &openapi.Schema{Type: "integer", Example: 1},
			}},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Expiring detections"),
				400: errRef("BadRequest"),
			},
		},
	}

	spec.Paths["/detections/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a detection",
			Tags:       []string{"detections"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Detection"),
				404: errRef("NotFound"),
			},
		},
	}

	spec.Paths["/detections/{id}/validate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Record an expert verdict on a detection",
			Tags:       []string{"detections"},
			Parameters: []*openapi.Parameter{idParam},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "object"}},
				},
			},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Updated detection"),
				404: errRef("NotFound"),
				409: errRef("Conflict"),
			},
		},
	}

	spec.Paths["/detections/{id}/extend"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Extend a detection's validity window",
			Tags:       []string{"detections"},
			Parameters: []*openapi.Parameter{idParam},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "object"}},
				},
			},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Updated detection"),
				400: errRef("BadRequest"),
				404: errRef("NotFound"),
			},
		},
	}

	keyParam := &openapi.Parameter{
		Name:     "key",
		In:       "path",
		Required: true,
		Schema:   &openapi.Schema{Type: "string"},
	}

	spec.Paths["/images"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List stored images",
			Tags:    []string{"images"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker from a prior page", false),
				openapi.QueryParam("max_results", "integer", "Page size", false),
			},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Page of image metadata"),
				400: errRef("BadRequest"),
			},
		},
	}

	spec.Paths["/images/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find image metadata",
			Tags:       []string{"images"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				200: jsonBody("Image metadata"),
				404: errRef("NotFound"),
			},
		},
	}

	spec.Paths["/images/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a stored image",
			Tags:       []string{"images"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				200: {Description: "Image bytes"},
				404: errRef("NotFound"),
			},
		},
	}

	return spec
}
