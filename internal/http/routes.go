// Package httpx exposes the portal's JSON API and job status stream.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/calcfunding/portal/internal/ports"
	"github.com/calcfunding/portal/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs           *service.JobService
	Datasets       *service.DatasetService
	Specifications *service.SpecificationService
	Funding        *service.FundingService
	Templates      *service.TemplateService

	// Verifier authenticates bearer tokens. Required.
	Verifier ports.TokenVerifier
	// Gate optionally restricts the portal to some groups.
	Gate Gate

	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewRouter creates the HTTP router. Everything but /healthz requires a
// verified identity.
func NewRouter(services RouterServices) http.Handler {
	api := http.NewServeMux()

	jobs := &JobHandlers{Svc: services.Jobs}
	api.HandleFunc("GET /api/jobs/stream", jobs.Stream)
	api.HandleFunc("GET /api/jobs/{jobId}", jobs.GetJob)

	specs := &SpecificationHandlers{Svc: services.Specifications}
	api.HandleFunc("GET /api/specifications", specs.Search)
	api.HandleFunc("POST /api/specifications", specs.Create)
	api.HandleFunc("GET /api/specifications/reference-data", specs.ReferenceData)

	datasets := &DatasetHandlers{Svc: services.Datasets, MaxUploadBytes: services.MaxUploadBytes}
	api.HandleFunc("GET /api/datasets/data-source-files", datasets.DataSourceFiles)
	api.HandleFunc("GET /api/datasets/definitions", datasets.Definitions)
	api.HandleFunc("POST /api/datasets/create/{specificationId}", datasets.CreateDataset)
	api.HandleFunc("POST /api/datasets/upload", datasets.Upload)
	api.HandleFunc("GET /api/datasets/schemas/{definitionId}/download", datasets.DownloadSchema)

	funding := &FundingHandlers{Svc: services.Funding}
	api.HandleFunc("GET /api/funding/{specificationId}", funding.Page)
	api.HandleFunc("POST /api/funding/{specificationId}/{action}", funding.Run)

	templates := &TemplateHandlers{Svc: services.Templates}
	api.HandleFunc("GET /api/templates/{templateId}", templates.Get)
	api.HandleFunc("PUT /api/templates/{templateId}", templates.Save)
	api.HandleFunc("DELETE /api/templates/{templateId}/draft", templates.Discard)
	api.HandleFunc("POST /api/templates/{templateId}/nodes", templates.AddNode)
	api.HandleFunc("PUT /api/templates/{templateId}/nodes/{nodeId}", templates.UpdateNode)
	api.HandleFunc("DELETE /api/templates/{templateId}/nodes/{nodeId}", templates.RemoveNode)
	api.HandleFunc("POST /api/templates/{templateId}/nodes/{nodeId}/clone", templates.CloneNode)
	api.HandleFunc("POST /api/templates/{templateId}/nodes/{nodeId}/move", templates.MoveNode)
	api.HandleFunc("POST /api/templates/{templateId}/undo", templates.Undo)
	api.HandleFunc("POST /api/templates/{templateId}/redo", templates.Redo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("/api/", RequireAuth(services.Verifier, services.Gate)(api))

	return chain(mux,
		RequestID(services.Logger),
		Logging(),
		Recover(),
	)
}

// chain applies middleware so that the first one listed runs outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
