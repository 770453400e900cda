package httpx

import (
	"errors"
	"net/http"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	"github.com/calcfunding/portal/internal/http/validation"
	"github.com/calcfunding/portal/internal/service"
)

// Uploaded spreadsheets are streamed to the backend; only this much is held in memory.
const uploadMemory = 8 << 20

// DatasetHandlers serves the Manage data pages.
type DatasetHandlers struct {
	Svc *service.DatasetService
	// MaxUploadBytes caps the request body of an upload. Zero means 100 MiB.
	MaxUploadBytes int64
}

// DataSourceFilesPage is the Manage data source files page model.
type DataSourceFilesPage struct {
	viewmodel.Layout
	Results    []model.DataSourceFile `json:"results"`
	Facets     []model.Facet          `json:"facets"`
	Pagination viewmodel.Pagination   `json:"pagination"`
}

// DataSourceFiles returns one page of the Manage data source files list.
func (h *DatasetHandlers) DataSourceFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(r)
	res, err := h.Svc.SearchDataSourceFiles(r.Context(), service.DataSourceFileQuery{
		Page:             page,
		PageSize:         size,
		SearchTerm:       q.Get("searchTerm"),
		FundingStreamIDs: multiValue(q["fundingStreamId"]),
		DefinitionNames:  multiValue(q["definitionName"]),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, DataSourceFilesPage{
		Layout:     newLayout(r, viewmodel.PageManageDataSourceFiles),
		Results:    nonNil(res.Items),
		Facets:     nonNil(res.Facets),
		Pagination: pagination(r, page, size, res.TotalCount, res.StartItemNumber, res.EndItemNumber),
	})
}

// Definitions lists the data schemas of a funding stream.
func (h *DatasetHandlers) Definitions(w http.ResponseWriter, r *http.Request) {
	defs, err := h.Svc.Definitions(r.Context(), r.URL.Query().Get("fundingStreamId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(defs))
}

// CreateDataset handles the Create dataset form submit. The backend is only
// called once every field validates.
func (h *DatasetHandlers) CreateDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, badForm(err))
		return
	}
	form := validation.NewCreateDatasetForm()
	form.Bind(r.PostForm)
	form.Set("specificationId", r.PathValue("specificationId"))
	req, ok := form.Request()
	if !ok {
		writeFormErrors(w, r, form.FieldErrors())
		return
	}
	ds, err := h.Svc.CreateDataset(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ds)
}

// Upload handles the Upload data source file multipart submit.
func (h *DatasetHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = 100 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, r, apperrors.ValidationField("filename", "The selected file must be smaller than the upload limit"))
			return
		}
		WriteError(w, r, badForm(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := validation.NewUploadDataSourceFileForm()
	form.Bind(r.PostForm)
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		form.Set("filename", header.Filename)
	}
	req, ok := form.Request()
	if !ok {
		writeFormErrors(w, r, form.FieldErrors())
		return
	}
	resp, err := h.Svc.UploadDataSourceFile(r.Context(), req, file)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, resp)
}

// DownloadSchema redirects to the schema's blob URL.
func (h *DatasetHandlers) DownloadSchema(w http.ResponseWriter, r *http.Request) {
	link, err := h.Svc.SchemaDownloadURL(r.Context(), r.PathValue("definitionId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}
