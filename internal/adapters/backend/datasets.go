package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
)

// CreateDataset assigns a dataset definition to a specification.
func (c *Client) CreateDataset(ctx context.Context, req model.CreateDatasetRequest) (model.Dataset, error) {
	var out model.Dataset
	err := c.sendJSON(ctx, http.MethodPost, "/api/datasets", req, &out)
	return out, err
}

// DatasetDefinitions lists the dataset schemas for a funding stream.
func (c *Client) DatasetDefinitions(ctx context.Context, fundingStreamID string) ([]model.DatasetDefinition, error) {
	var out []model.DatasetDefinition
	var q url.Values
	if fundingStreamID != "" {
		q = url.Values{"fundingStreamId": {fundingStreamID}}
	}
	err := c.getJSON(ctx, "/api/datasets/definitions", q, &out)
	return out, err
}

// SearchDataSourceFiles returns one page of uploaded data source files.
func (c *Client) SearchDataSourceFiles(
	ctx context.Context,
	req model.SearchRequest,
) (model.SearchResults[model.DataSourceFile], error) {
	var out model.SearchResults[model.DataSourceFile]
	err := c.getJSON(ctx, "/api/datasets/datasource-files/search", searchQuery(req), &out)
	return out, err
}

// SchemaDownloadURL returns the blob URL a dataset schema can be fetched from.
func (c *Client) SchemaDownloadURL(ctx context.Context, definitionID string) (model.SchemaDownload, error) {
	var out model.SchemaDownload
	path := "/api/datasets/schemas/" + url.PathEscape(definitionID) + "/download-url"
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return out, err
	}
	if out.URL == "" {
		return out, apperrors.NotFoundf("no download link for schema %s", definitionID)
	}
	return out, nil
}

// UploadDataSourceFile streams content to the backend as a multipart form.
func (c *Client) UploadDataSourceFile(
	ctx context.Context,
	req model.UploadDataSourceFileRequest,
	content io.Reader,
) (model.UploadDataSourceFileResponse, error) {
	var out model.UploadDataSourceFileResponse

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(mw, req, content))
	}()

	err := c.do(ctx, http.MethodPost, c.endpoint("/api/datasets/datasource-files", nil), pr, mw.FormDataContentType(), &out)
	_ = pr.Close()
	return out, err
}

func writeUploadForm(mw *multipart.Writer, req model.UploadDataSourceFileRequest, content io.Reader) error {
	fields := []struct{ name, value string }{
		{"name", req.Name},
		{"description", req.Description},
		{"datasetDefinitionId", req.DatasetDefinitionID},
		{"fundingStreamId", req.FundingStreamID},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write %s field: %w", f.name, err)
		}
	}
	part, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("copy file content: %w", err)
	}
	return mw.Close()
}
