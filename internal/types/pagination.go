package types

import "fmt"

// Pagination bounds. Size is capped so a single page can never pull an
// unbounded row set through the repository.
const (
	MinPageSize = 1
	MaxPageSize = 100
)

// PaginationParams carries a validated page/size pair. Construct via
// NewPaginationParams; the zero value is not valid.
type PaginationParams struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// NewPaginationParams validates page >= 1 and 1 <= size <= 100.
func NewPaginationParams(page, size int) (PaginationParams, error) {
	if page < 1 {
		return PaginationParams{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPagination, page)
	}
	if size < MinPageSize || size > MaxPageSize {
		return PaginationParams{}, fmt.Errorf("%w: size must be between %d and %d, got %d",
			ErrInvalidPagination, MinPageSize, MaxPageSize, size)
	}
	return PaginationParams{Page: page, Size: size}, nil
}

// Offset returns the row offset for the database query.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit returns the row limit for the database query.
func (p PaginationParams) Limit() int {
	return p.Size
}

// PaginatedResult is a page of items plus navigation metadata.
type PaginatedResult[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_previous"`
	NextPage   *int `json:"next_page,omitempty"`
	PrevPage   *int `json:"previous_page,omitempty"`
}

// NewPaginatedResult derives navigation metadata from the page and total.
// TotalPages is 0 when total is 0; a page beyond TotalPages carries empty
// items and HasNext=false.
func NewPaginatedResult[T any](items []T, total int, p PaginationParams) PaginatedResult[T] {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Size - 1) / p.Size
	}
	r := PaginatedResult[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
	if r.HasNext {
		next := p.Page + 1
		r.NextPage = &next
	}
	if r.HasPrev {
		prev := p.Page - 1
		r.PrevPage = &prev
	}
	return r
}
