package shared

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Limit  int
	Offset int
}

// Page is the list payload of paginated endpoints.
type Page struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParsePagination reads limit plus either offset or a 1-based page.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	query := r.URL.Query()
	limit := defaultLimit
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	} else if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 1 {
		offset = (v - 1) * limit
	}
	return Pagination{Limit: limit, Offset: offset}
}

func (p Pagination) Page(items any, total int) Page {
	return Page{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}
}
