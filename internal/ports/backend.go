package ports

import (
	"context"
	"io"

	"github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/domain/template"
)

// SpecificationsAPI covers specification and reference-data calls.
type SpecificationsAPI interface {
	SearchSpecifications(ctx context.Context, req model.SearchRequest) (model.SearchResults[model.SpecificationSummary], error)
	GetSpecification(ctx context.Context, specificationID string) (model.SpecificationSummary, error)
	CreateSpecification(ctx context.Context, req model.CreateSpecificationRequest) (model.SpecificationSummary, error)
	FundingStreams(ctx context.Context) ([]model.FundingStream, error)
	FundingPeriods(ctx context.Context, fundingStreamID string) ([]model.FundingPeriod, error)
}

// DatasetsAPI covers datasets, schemas and data source files.
type DatasetsAPI interface {
	CreateDataset(ctx context.Context, req model.CreateDatasetRequest) (model.Dataset, error)
	DatasetDefinitions(ctx context.Context, fundingStreamID string) ([]model.DatasetDefinition, error)
	SearchDataSourceFiles(ctx context.Context, req model.SearchRequest) (model.SearchResults[model.DataSourceFile], error)
	SchemaDownloadURL(ctx context.Context, definitionID string) (model.SchemaDownload, error)
	UploadDataSourceFile(ctx context.Context, req model.UploadDataSourceFileRequest, content io.Reader) (model.UploadDataSourceFileResponse, error)
}

// JobsAPI reads job snapshots. It doubles as the polling source of the job
// subscription manager.
type JobsAPI interface {
	job.Source
	GetJob(ctx context.Context, jobID string) (model.JobDetails, error)
}

// FundingAPI queues funding actions and returns the id of the job doing the work.
type FundingAPI interface {
	ApproveFunding(ctx context.Context, specificationID string) (model.JobCreatedResponse, error)
	ReleaseFunding(ctx context.Context, specificationID string) (model.JobCreatedResponse, error)
	RefreshFunding(ctx context.Context, specificationID string) (model.JobCreatedResponse, error)
}

// TemplatesAPI reads and writes funding templates.
type TemplatesAPI interface {
	GetTemplate(ctx context.Context, templateID string) (model.TemplateSummary, error)
	UpdateTemplateContent(ctx context.Context, templateID string, content template.Template) error
}

// PermissionsAPI resolves what a user may do on a specification.
type PermissionsAPI interface {
	EffectivePermissions(ctx context.Context, userID, specificationID string) (model.EffectivePermissions, error)
}

// Backend is the full funding platform surface used by the portal.
type Backend interface {
	SpecificationsAPI
	DatasetsAPI
	JobsAPI
	FundingAPI
	TemplatesAPI
	PermissionsAPI
}
