package pagination

// Meta describes the position of one page within a filtered result set.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// SkipLimit converts a 1-indexed page and page size into an offset/limit
// pair for a bounded range query.
func SkipLimit(page, perPage int) (skip, limit int) {
	skip = (page - 1) * perPage
	limit = perPage
	return skip, limit
}

// NewMeta builds pagination metadata from the total row count matching the
// query's filters. A page past the end is not an error; it simply has no
// rows and HasNext=false.
func NewMeta(page, perPage int, total int64) Meta {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
