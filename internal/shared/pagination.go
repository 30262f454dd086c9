package shared

import "math"

// ListFilters narrows list queries.
type ListFilters struct {
	Search  string
	Page    int
	PerPage int
}

// Normalize clamps paging to sane bounds.
func (f ListFilters) Normalize() ListFilters {
	if f.PerPage <= 0 || f.PerPage > 200 {
		f.PerPage = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return f
}

// Offset is the row offset of the current page.
func (f ListFilters) Offset() int {
	f = f.Normalize()
	return (f.Page - 1) * f.PerPage
}

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(f ListFilters, total int) Pagination {
	f = f.Normalize()
	totalPages := int(math.Ceil(float64(total) / float64(f.PerPage)))
	return Pagination{Page: f.Page, PerPage: f.PerPage, Total: total, TotalPages: totalPages}
}

// Paginate slices an in-memory result set to the requested page.
func Paginate[T any](items []T, f ListFilters) []T {
	f = f.Normalize()
	start := f.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + f.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
