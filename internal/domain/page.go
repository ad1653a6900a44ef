package domain

// OffsetPage is the list response of limit/offset resources.
type OffsetPage[T any] struct {
	Count   int  `json:"count"`
	Next    bool `json:"next"`
	Results []T  `json:"results"`
}

// NewOffsetPage computes Next from the upstream total.
func NewOffsetPage[T any](results []T, limit, offset, total int) *OffsetPage[T] {
	if results == nil {
		results = []T{}
	}
	return &OffsetPage[T]{
		Count:   total,
		Next:    offset+limit < total,
		Results: results,
	}
}

// PageInfo mirrors the upstream "info" object of page-numbered resources.
type PageInfo struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// NumberedPage is the list response of page-numbered resources.
type NumberedPage[T any] struct {
	Info    PageInfo `json:"info"`
	Results []T      `json:"results"`
}

// SearchResults wraps a non-paginated search response.
type SearchResults[T any] struct {
	Results []T `json:"results"`
}
