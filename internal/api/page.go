package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Data            []T  `json:"data"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalItemCount  int  `json:"totalItemCount"`
	PageCount       int  `json:"pageCount"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// PageCount returns ceil(total/size), or 0 when size is not positive.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NewPage builds a page whose derived fields are consistent with number,
// size and total.
func NewPage[T any](data []T, number, size, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	count := PageCount(total, size)
	return Page[T]{
		Data:            data,
		PageNumber:      number,
		PageSize:        size,
		TotalItemCount:  total,
		PageCount:       count,
		HasNextPage:     number < count,
		HasPreviousPage: number > 1,
	}
}

// Consistent checks the derived fields of a decoded page.
func (p Page[T]) Consistent() error {
	if want := PageCount(p.TotalItemCount, p.PageSize); p.PageCount != want {
		return fmt.Errorf("pageCount is %d, want ceil(%d/%d) = %d", p.PageCount, p.TotalItemCount, p.PageSize, want)
	}
	if want := p.PageNumber < p.PageCount; p.HasNextPage != want {
		return fmt.Errorf("hasNextPage is %t on page %d of %d", p.HasNextPage, p.PageNumber, p.PageCount)
	}
	if want := p.PageNumber > 1; p.HasPreviousPage != want {
		return fmt.Errorf("hasPreviousPage is %t on page %d", p.HasPreviousPage, p.PageNumber)
	}
	return nil
}

// PageRequest selects one page of a list endpoint. Pages are 1-based.
type PageRequest struct {
	Number int
	Size   int
}

// FirstPage returns page 1 of the given size.
func FirstPage(size int) PageRequest {
	return PageRequest{Number: 1, Size: size}
}

// Validate rejects page numbers or sizes below 1.
func (r PageRequest) Validate() error {
	var problems []string
	if r.Number < 1 {
		problems = append(problems, fmt.Sprintf("page number must be at least 1, got %d", r.Number))
	}
	if r.Size < 1 {
		problems = append(problems, fmt.Sprintf("page size must be at least 1, got %d", r.Size))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Next returns the following page request.
func (r PageRequest) Next() PageRequest {
	return PageRequest{Number: r.Number + 1, Size: r.Size}
}

// Prev returns the preceding page request, never below page 1.
func (r PageRequest) Prev() PageRequest {
	if r.Number <= 1 {
		return r
	}
	return PageRequest{Number: r.Number - 1, Size: r.Size}
}

func (r PageRequest) values() url.Values {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(r.Number))
	q.Set("pageSize", strconv.Itoa(r.Size))
	return q
}
