package model

// SearchRequest is the paging/filtering envelope sent to backend search endpoints.
type SearchRequest struct {
	PageNumber int                 `json:"pageNumber"`
	PageSize   int                 `json:"pageSize"`
	SearchTerm string              `json:"searchTerm,omitempty"`
	Filters    map[string][]string `json:"filters,omitempty"`
}

// FacetValue is one aggregate count inside a facet.
type FacetValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facet groups backend aggregate counts used to render filter checkboxes.
type Facet struct {
	Name   string       `json:"name"`
	Values []FacetValue `json:"facetValues"`
}

// PagerState describes the pages around the current one.
type PagerState struct {
	CurrentPage  int   `json:"currentPage"`
	LastPage     int   `json:"lastPage"`
	PreviousPage *int  `json:"previousPage,omitempty"`
	NextPage     *int  `json:"nextPage,omitempty"`
	Pages        []int `json:"pages"`
}

// SearchResults is the paging/faceting envelope returned by backend search endpoints.
type SearchResults[T any] struct {
	Items           []T        `json:"items"`
	TotalCount      int        `json:"totalCount"`
	StartItemNumber int        `json:"startItemNumber"`
	EndItemNumber   int        `json:"endItemNumber"`
	PagerState      PagerState `json:"pagerState"`
	Facets          []Facet    `json:"facets,omitempty"`
}
