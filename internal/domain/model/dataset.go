package model

import "time"

// DatasetDefinition is a dataset schema that data source files must conform to.
type DatasetDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Dataset is a data relationship between a specification and a dataset definition.
type Dataset struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	SpecificationID     string    `json:"specificationId"`
	DatasetDefinitionID string    `json:"datasetDefinitionId"`
	IsProviderData      bool      `json:"isProviderData"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// DataSourceFile is an uploaded spreadsheet stored against a dataset definition.
type DataSourceFile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	DefinitionName    string    `json:"definitionName"`
	FundingStreamID   string    `json:"fundingStreamId,omitempty"`
	Version           int       `json:"version"`
	LastUpdatedByName string    `json:"lastUpdatedByName,omitempty"`
	LastUpdatedDate   time.Time `json:"lastUpdatedDate"`
	RelationshipCount int       `json:"relationshipCount"`
}

// CreateDatasetRequest assigns a dataset schema to a specification.
type CreateDatasetRequest struct {
	SpecificationID     string `json:"specificationId"     validate:"required"`
	Name                string `json:"name"                validate:"required,max=256"`
	Description         string `json:"description"         validate:"required,max=1000"`
	DatasetDefinitionID string `json:"datasetDefinitionId" validate:"required"`
	IsProviderData      bool   `json:"isProviderData"`
}

// Validate returns inline messages keyed by JSON field name.
func (r *CreateDatasetRequest) Validate() (map[string]string, error) {
	return validateStruct(r, fieldMessages{
		"SpecificationID":     "Specification is missing",
		"Name":                "Enter a dataset name",
		"Description":         "Enter a dataset description",
		"DatasetDefinitionID": "Select a data schema",
	})
}

// UploadDataSourceFileRequest describes a new data source file upload.
type UploadDataSourceFileRequest struct {
	Filename            string `json:"filename"            validate:"required,excel_file"`
	DatasetDefinitionID string `json:"datasetDefinitionId" validate:"required"`
	FundingStreamID     string `json:"fundingStreamId"     validate:"required"`
	Name                string `json:"name"                validate:"required,max=256"`
	Description         string `json:"description"         validate:"required,max=1000"`
}

// Validate returns inline messages keyed by JSON field name.
func (r *UploadDataSourceFileRequest) Validate() (map[string]string, error) {
	return validateStruct(r, fieldMessages{
		"Filename":            "Upload an xls or xlsx file",
		"DatasetDefinitionID": "Select a data schema",
		"FundingStreamID":     "Select a funding stream",
		"Name":                "Enter a data source name",
		"Description":         "Enter a data source description",
	})
}

// UploadDataSourceFileResponse is returned once the backend accepts an upload.
type UploadDataSourceFileResponse struct {
	DatasetID string `json:"datasetId"`
	JobID     string `json:"jobId,omitempty"`
}

// SchemaDownload carries the blob URL a dataset schema can be downloaded from.
type SchemaDownload struct {
	URL string `json:"url"`
}
