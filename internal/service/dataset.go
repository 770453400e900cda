package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/ports"
)

// DatasetServiceOptions groups dependencies for DatasetService.
type DatasetServiceOptions struct {
	Backend ports.DatasetsAPI // Required
	Logger  *slog.Logger
}

// DatasetService backs the Manage data pages.
type DatasetService struct {
	backend ports.DatasetsAPI
	logger  *slog.Logger
}

// NewDatasetService constructs a DatasetService.
func NewDatasetService(opts DatasetServiceOptions) (*DatasetService, error) {
	if opts.Backend == nil {
		return nil, errors.New("DatasetsAPI is required")
	}
	return &DatasetService{backend: opts.Backend, logger: componentLogger(opts.Logger, "dataset_service")}, nil
}

// CreateDataset validates req and, only when valid, asks the backend to create it.
func (s *DatasetService) CreateDataset(ctx context.Context, req model.CreateDatasetRequest) (model.Dataset, error) {
	messages, err := req.Validate()
	if err != nil {
		return model.Dataset{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "validate dataset")
	}
	if len(messages) > 0 {
		return model.Dataset{}, invalid(messages)
	}
	ds, err := s.backend.CreateDataset(ctx, req)
	if apperrors.IsValidation(err) {
		s.logger.InfoContext(ctx, "dataset rejected by platform",
			"specification_id", req.SpecificationID,
			"definition_id", req.DatasetDefinitionID,
		)
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("create dataset: %w", err)
	}
	s.logger.InfoContext(ctx, "dataset created",
		"dataset_id", ds.ID,
		"specification_id", req.SpecificationID,
		"definition_id", req.DatasetDefinitionID,
	)
	return ds, nil
}

// DataSourceFileQuery is the Manage data source files search.
type DataSourceFileQuery struct {
	Page             int
	PageSize         int
	SearchTerm       string
	FundingStreamIDs []string
	DefinitionNames  []string
}

// SearchDataSourceFiles returns one page of data source files with facets.
func (s *DatasetService) SearchDataSourceFiles(
	ctx context.Context,
	q DataSourceFileQuery,
) (model.SearchResults[model.DataSourceFile], error) {
	page, size := PageBounds(q.Page, q.PageSize)
	req := model.SearchRequest{
		PageNumber: page,
		PageSize:   size,
		SearchTerm: strings.TrimSpace(q.SearchTerm),
		Filters:    map[string][]string{},
	}
	if len(q.FundingStreamIDs) > 0 {
		req.Filters["fundingStreamId"] = q.FundingStreamIDs
	}
	if len(q.DefinitionNames) > 0 {
		req.Filters["definitionName"] = q.DefinitionNames
	}
	res, err := s.backend.SearchDataSourceFiles(ctx, req)
	if err != nil {
		return res, fmt.Errorf("search data source files: %w", err)
	}
	return res, nil
}

// UploadDataSourceFile validates req before streaming content to the backend.
func (s *DatasetService) UploadDataSourceFile(
	ctx context.Context,
	req model.UploadDataSourceFileRequest,
	content io.Reader,
) (model.UploadDataSourceFileResponse, error) {
	messages, err := req.Validate()
	if err != nil {
		return model.UploadDataSourceFileResponse{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "validate upload")
	}
	if len(messages) > 0 {
		return model.UploadDataSourceFileResponse{}, invalid(messages)
	}
	if content == nil {
		return model.UploadDataSourceFileResponse{}, apperrors.ValidationField("filename", "Upload an xls or xlsx file")
	}
	resp, err := s.backend.UploadDataSourceFile(ctx, req, content)
	if err != nil {
		return resp, fmt.Errorf("upload data source file: %w", err)
	}
	s.logger.InfoContext(ctx, "data source file uploaded", "dataset_id", resp.DatasetID, "job_id", resp.JobID)
	return resp, nil
}

// SchemaDownloadURL returns the link a dataset schema downloads from.
func (s *DatasetService) SchemaDownloadURL(ctx context.Context, definitionID string) (string, error) {
	if strings.TrimSpace(definitionID) == "" {
		return "", apperrors.ValidationField("definitionId", "Select a data schema")
	}
	dl, err := s.backend.SchemaDownloadURL(ctx, definitionID)
	if err != nil {
		return "", fmt.Errorf("schema download url: %w", err)
	}
	return dl.URL, nil
}

// Definitions lists the dataset schemas for a funding stream.
func (s *DatasetService) Definitions(ctx context.Context, fundingStreamID string) ([]model.DatasetDefinition, error) {
	defs, err := s.backend.DatasetDefinitions(ctx, fundingStreamID)
	if err != nil {
		return nil, fmt.Errorf("dataset definitions: %w", err)
	}
	return defs, nil
}
