// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 20

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Page is the envelope for a numbered page of rows.
type Page[T any] struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	HasNextPage bool  `json:"hasNextPage"`
	Data        []T   `json:"data"`
}

// NewPage wraps rows fetched for page (1-based) out of total matches.
func NewPage[T any](rows []T, page, pageSize int, total int64) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{
		Page:        page,
		PageSize:    pageSize,
		Count:       len(rows),
		Total:       total,
		HasNextPage: int64(page)*int64(pageSize) < total,
		Data:        rows,
	}
}
