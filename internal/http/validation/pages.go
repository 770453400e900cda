package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/domain/template"
)

const (
	maxNameLen        = 256
	maxDescriptionLen = 1000
)

var fundingLineCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// CreateDatasetForm backs the Create dataset page.
type CreateDatasetForm struct {
	*Form
}

// NewCreateDatasetForm declares the Create dataset fields.
func NewCreateDatasetForm() *CreateDatasetForm {
	return &CreateDatasetForm{Form: NewForm(
		Field{Name: "specificationId", Label: "Specification", Validators: []Validator{
			NotBlank("Specification is missing"),
		}},
		Field{Name: "datasetDefinitionId", Label: "Data schema", Validators: []Validator{
			NotBlank("Select a data schema"),
		}},
		Field{Name: "name", Label: "Dataset name", Validators: []Validator{
			NotBlank("Enter a dataset name"),
			MaxLen("Dataset name cannot exceed 256 characters", maxNameLen),
		}},
		Field{Name: "description", Label: "Description", Validators: []Validator{
			NotBlank("Enter a dataset description"),
			MaxLen("Description cannot exceed 1000 characters", maxDescriptionLen),
		}},
		Field{Name: "isProviderData", Label: "Provider data"},
	)}
}

// Request validates every field and builds the backend request. ok is false
// when any field fails; the request must not be sent in that case.
func (f *CreateDatasetForm) Request() (req model.CreateDatasetRequest, ok bool) {
	if !f.ValidateAll() {
		return req, false
	}
	return model.CreateDatasetRequest{
		SpecificationID:     f.TrimmedValue("specificationId"),
		Name:                f.TrimmedValue("name"),
		Description:         f.TrimmedValue("description"),
		DatasetDefinitionID: f.TrimmedValue("datasetDefinitionId"),
		IsProviderData:      checkbox(f.Value("isProviderData")),
	}, true
}

// UploadDataSourceFileForm backs the Upload data source file page.
type UploadDataSourceFileForm struct {
	*Form
}

// NewUploadDataSourceFileForm declares the upload fields.
func NewUploadDataSourceFileForm() *UploadDataSourceFileForm {
	return &UploadDataSourceFileForm{Form: NewForm(
		Field{Name: "fundingStreamId", Label: "Funding stream", Validators: []Validator{
			NotBlank("Select a funding stream"),
		}},
		Field{Name: "datasetDefinitionId", Label: "Data schema", Validators: []Validator{
			NotBlank("Select a data schema"),
		}},
		Field{Name: "name", Label: "Data source name", Validators: []Validator{
			NotBlank("Enter a data source name"),
			MaxLen("Data source name cannot exceed 256 characters", maxNameLen),
		}},
		Field{Name: "description", Label: "Description", Validators: []Validator{
			NotBlank("Enter a data source description"),
			MaxLen("Description cannot exceed 1000 characters", maxDescriptionLen),
		}},
		Field{Name: "filename", Label: "File", Validators: []Validator{
			NotBlank("Upload an xls or xlsx file"),
			FileExtension("Upload an xls or xlsx file", ".xls", ".xlsx"),
		}},
	)}
}

// Request validates every field and builds the upload metadata.
func (f *UploadDataSourceFileForm) Request() (req model.UploadDataSourceFileRequest, ok bool) {
	if !f.ValidateAll() {
		return req, false
	}
	return model.UploadDataSourceFileRequest{
		Filename:            f.TrimmedValue("filename"),
		DatasetDefinitionID: f.TrimmedValue("datasetDefinitionId"),
		FundingStreamID:     f.TrimmedValue("fundingStreamId"),
		Name:                f.TrimmedValue("name"),
		Description:         f.TrimmedValue("description"),
	}, true
}

// CreateSpecificationForm backs the Create specification page.
type CreateSpecificationForm struct {
	*Form
}

// NewCreateSpecificationForm declares the Create specification fields.
func NewCreateSpecificationForm() *CreateSpecificationForm {
	return &CreateSpecificationForm{Form: NewForm(
		Field{Name: "name", Label: "Specification name", Validators: []Validator{
			NotBlank("Enter a specification name"),
			MaxLen("Specification name cannot exceed 256 characters", maxNameLen),
		}},
		Field{Name: "description", Label: "Description", Validators: []Validator{
			MaxLen("Description cannot exceed 1000 characters", maxDescriptionLen),
		}},
		Field{Name: "fundingStreamId", Label: "Funding stream", Validators: []Validator{
			NotBlank("Select a funding stream"),
		}},
		Field{Name: "fundingPeriodId", Label: "Funding period", Validators: []Validator{
			NotBlank("Select a funding period"),
		}},
		Field{Name: "providerVersionId", Label: "Core provider data", Validators: []Validator{
			NotBlank("Select a core provider data version"),
		}},
		Field{Name: "templateVersion", Label: "Template version", Validators: []Validator{
			NotBlank("Select a template version"),
		}},
	)}
}

// Request validates every field and builds the backend request.
func (f *CreateSpecificationForm) Request() (req model.CreateSpecificationRequest, ok bool) {
	if !f.ValidateAll() {
		return req, false
	}
	return model.CreateSpecificationRequest{
		Name:              f.TrimmedValue("name"),
		Description:       f.TrimmedValue("description"),
		FundingStreamID:   f.TrimmedValue("fundingStreamId"),
		FundingPeriodID:   f.TrimmedValue("fundingPeriodId"),
		ProviderVersionID: f.TrimmedValue("providerVersionId"),
		TemplateVersion:   f.TrimmedValue("templateVersion"),
	}, true
}

// TemplateNodeForm backs the add/edit node panel of the template builder.
type TemplateNodeForm struct {
	*Form
}

// NewTemplateNodeForm declares the node fields.
func NewTemplateNodeForm() *TemplateNodeForm {
	return &TemplateNodeForm{Form: NewForm(
		Field{Name: "parentId", Label: "Parent", Validators: []Validator{
			IntRange("Parent", 0, math.MaxInt32),
		}},
		Field{Name: "kind", Label: "Kind", Validators: []Validator{
			OneOf("Kind", []string{string(template.KindFundingLine), string(template.KindCalculation)}),
		}},
		Field{Name: "name", Label: "Name", Validators: []Validator{
			Required("Name", maxNameLen),
		}},
		Field{Name: "fundingLineCode", Label: "Funding line code", Validators: []Validator{
			Optional("Funding line code", 64),
			Pattern("Funding line code", fundingLineCodePattern),
		}},
		Field{Name: "lineType", Label: "Line type", Validators: []Validator{
			IfPresent(OneOf("Line type", []string{string(template.LineTypePayment), string(template.LineTypeInformation)})),
		}},
		Field{Name: "formulaText", Label: "Formula", Validators: []Validator{
			Optional("Formula", 4000),
		}},
	)}
}

// Spec validates the form and returns the parent id and node properties.
func (f *TemplateNodeForm) Spec() (parentID int, spec template.NodeSpec, ok bool) {
	if f.TrimmedValue("parentId") == "" {
		f.Set("parentId", "0")
	}
	if !f.ValidateAll() {
		return 0, spec, false
	}
	parentID, _ = strconv.Atoi(f.TrimmedValue("parentId"))
	kind := template.KindCalculation
	if strings.EqualFold(f.TrimmedValue("kind"), string(template.KindFundingLine)) {
		kind = template.KindFundingLine
	}
	lineType := template.LineType("")
	if strings.EqualFold(f.TrimmedValue("lineType"), string(template.LineTypePayment)) {
		lineType = template.LineTypePayment
	} else if f.TrimmedValue("lineType") != "" {
		lineType = template.LineTypeInformation
	}
	return parentID, template.NodeSpec{
		Kind:            kind,
		Name:            f.TrimmedValue("name"),
		FundingLineCode: f.TrimmedValue("fundingLineCode"),
		LineType:        lineType,
		FormulaText:     f.TrimmedValue("formulaText"),
	}, true
}

func checkbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "yes", "1":
		return true
	default:
		return false
	}
}
