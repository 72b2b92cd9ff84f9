package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when the page query parameter is absent or invalid.
	DefaultPage = 1
	// DefaultLimit is used when the limit query parameter is absent or invalid.
	DefaultLimit = 10
)

// Params holds the resolved pagination window for a list query.
type Params struct {
	Page  int
	Limit int
	Skip  int
	Take  int
}

// Parse resolves raw page/limit query strings into a pagination window.
// Absent, non-numeric, or non-positive values fall back to the defaults.
func Parse(page, limit string) Params {
	p := parsePositive(page, DefaultPage)
	l := parsePositive(limit, DefaultLimit)
	return Params{
		Page:  p,
		Limit: l,
		Skip:  (p - 1) * l,
		Take:  l,
	}
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Meta describes the result window of a paginated list response.
type Meta struct {
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ComputeMeta derives list metadata from a total row count and the window
// that produced it. A non-positive limit falls back to the default so the
// page count is always well defined.
func ComputeMeta(total int64, limit, page int) Meta {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Meta{
		Total:       total,
		Limit:       limit,
		Page:        page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// ParseSort splits a "field:direction" sort expression. It returns ok=false
// when the expression is malformed or the direction is not asc/desc; callers
// keep their default ordering in that case.
func ParseSort(sort string) (field, direction string, ok bool) {
	parts := strings.SplitN(sort, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	field, direction = parts[0], parts[1]
	if field == "" || (direction != "asc" && direction != "desc") {
		return "", "", false
	}
	return field, direction, true
}
