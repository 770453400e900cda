package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	"github.com/calcfunding/portal/internal/http/validation"
	"github.com/calcfunding/portal/internal/service"
)

// SpecificationHandlers serves the specification search and create pages.
type SpecificationHandlers struct {
	Svc *service.SpecificationService
}

// SpecificationsPage is the View specifications page model.
type SpecificationsPage struct {
	viewmodel.Layout
	Results    []model.SpecificationSummary `json:"results"`
	Facets     []model.Facet                `json:"facets"`
	Pagination viewmodel.Pagination         `json:"pagination"`
}

// Search returns one page of specifications.
func (h *SpecificationHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(r)
	res, err := h.Svc.Search(r.Context(), service.SpecificationQuery{
		Page:           page,
		PageSize:       size,
		SearchTerm:     q.Get("searchTerm"),
		FundingPeriods: multiValue(q["fundingPeriod"]),
		FundingStreams: multiValue(q["fundingStream"]),
		Status:         multiValue(q["status"]),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := SpecificationsPage{
		Layout:     newLayout(r, viewmodel.PageSpecifications),
		Results:    nonNil(res.Items),
		Facets:     nonNil(res.Facets),
		Pagination: pagination(r, page, size, res.TotalCount, res.StartItemNumber, res.EndItemNumber),
	}
	WriteJSON(w, http.StatusOK, out)
}

// ReferenceData returns funding streams and periods for the create page selects.
func (h *SpecificationHandlers) ReferenceData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Svc.ReferenceData(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, data)
}

// Create handles the Create specification form submit.
func (h *SpecificationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, badForm(err))
		return
	}
	form := validation.NewCreateSpecificationForm()
	form.Bind(r.PostForm)
	req, ok := form.Request()
	if !ok {
		writeFormErrors(w, r, form.FieldErrors())
		return
	}
	spec, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, spec)
}

// pageParams reads the 1-based page number and page size, normalised the
// way the services send them to the backend.
func pageParams(r *http.Request) (int, int) {
	return service.PageBounds(parseIntQuery(r, "page", 1), parseIntQuery(r, "pageSize", 0))
}

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// multiValue accepts both repeated and comma-separated query values.
func multiValue(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func pagination(r *http.Request, page, size, total, start, end int) viewmodel.Pagination {
	base := *r.URL
	q := base.Query()
	q.Del("access_token")
	base.RawQuery = q.Encode()
	return viewmodel.FromBackend(page, size, total, start, end).WithLinks(&base)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
