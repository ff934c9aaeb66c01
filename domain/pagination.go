package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
	// MaxPage keeps Page*Limit, and so Offset, within int64 for every
	// allowed limit.
	MaxPage = math.MaxInt64 / MaxLimit
)

// Pagination is an offset based page request. Offset pagination is not stable
// under concurrent inserts: rows can shift between pages.
type Pagination struct {
	Page  int64
	Limit int64
}

// NewPagination normalizes page and limit, falling back to the defaults for
// non-positive values and capping page at MaxPage and limit at MaxLimit.
func NewPagination(page, limit int64) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int64 {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit).
func (p Pagination) TotalPages(total int64) int64 {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
