package response

// DateTimeFormat is the layout of every timestamp in a response body.
const DateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Pagination describes a page of a listing.
type Pagination struct {
	CurrentPage int64 `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int64 `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(page, limit, totalPages, total int64) Pagination {
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page*limit < total,
		HasPrevPage: page > 1,
	}
}
