package viewmodel

import (
	"fmt"
	"net/url"
	"strconv"
)

// Pagination contains pagination metadata for list views.
// StartIndex <= EndIndex <= TotalCount always holds; all three are zero for an empty list.
type Pagination struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	HasPrev    bool   `json:"hasPrev"`
	HasNext    bool   `json:"hasNext"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
	TotalCount int    `json:"totalCount"`
	PrevURL    string `json:"prevUrl,omitempty"`
	NextURL    string `json:"nextUrl,omitempty"`
	Summary    string `json:"summary"`
}

// NewPagination builds pagination for a 1-based page request. The page is
// clamped to [1, last page] and the page size defaults to 20 when not positive.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	if total < 0 {
		total = 0
	}
	pages := (total + pageSize - 1) / pageSize
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	p := Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
	if total > 0 {
		p.StartIndex = (page-1)*pageSize + 1
		p.EndIndex = min(page*pageSize, total)
	}
	p.Summary = p.Text()
	return p
}

// FromBackend reconciles item numbers reported by the backend with the
// requested page. The backend numbers are kept only when they start the
// requested page and fit within one page; otherwise the computed window wins.
func FromBackend(page, pageSize, total, start, end int) Pagination {
	p := NewPagination(page, pageSize, total)
	if total > 0 && start == p.StartIndex && start <= end && end <= total && end-start+1 <= p.PageSize {
		p.StartIndex, p.EndIndex = start, end
		p.Summary = p.Text()
	}
	return p
}

// Text renders "Showing X–Y of Z".
func (p Pagination) Text() string {
	if p.TotalCount == 0 {
		return "Showing 0 results"
	}
	return fmt.Sprintf("Showing %d–%d of %d", p.StartIndex, p.EndIndex, p.TotalCount)
}

// WithLinks fills PrevURL and NextURL from base, preserving its other query parameters.
func (p Pagination) WithLinks(base *url.URL) Pagination {
	if base == nil {
		return p
	}
	link := func(page int) string {
		u := *base
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("pageSize", strconv.Itoa(p.PageSize))
		u.RawQuery = q.Encode()
		return u.String()
	}
	if p.HasPrev {
		p.PrevURL = link(p.Page - 1)
	}
	if p.HasNext {
		p.NextURL = link(p.Page + 1)
	}
	return p
}
