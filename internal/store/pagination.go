package store

// DefaultPerPage is the fixed page size for listings.
const DefaultPerPage = 10

// PageParams selects one page of a listing. Pages are 1-based.
type PageParams struct {
	Page    int
	PerPage int
}

// Validate clamps the params to usable values.
func (p *PageParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one page of results with the totals a client needs to page through.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// NewPage builds a page. LastPage is at least 1 so an empty listing still
// reports a single empty page.
func NewPage[T any](data []T, params PageParams, total int) *Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := (total + params.PerPage - 1) / params.PerPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &Page[T]{
		Data:        data,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}
