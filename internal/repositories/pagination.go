package repositories

// DefaultPageSize is applied when a paginated list request omits limit.
const DefaultPageSize = 10

// PageMeta describes a paginated result set. It is nil for unpaginated lists,
// which return a bare slice truncated to the requested limit.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListParams carries the optional page/limit query values. A nil Page selects
// the unpaginated (bare slice) form.
type ListParams struct {
	Page  *int
	Limit *int
}

// resolve returns the effective limit/offset for the query plus the paginated
// flag. Paginated requests default their page size; bare requests without a
// limit are unbounded.
func (p ListParams) resolve() (limit, offset int, paginated bool) {
	if p.Page != nil {
		page := *p.Page
		if page < 1 {
			page = 1
		}
		limit = DefaultPageSize
		if p.Limit != nil && *p.Limit > 0 {
			limit = *p.Limit
		}
		return limit, (page - 1) * limit, true
	}
	if p.Limit != nil && *p.Limit > 0 {
		return *p.Limit, 0, false
	}
	return -1, 0, false // -1 disables the LIMIT clause in SQLite
}

// meta builds the PageMeta for a paginated query result.
func (p ListParams) meta(limit, total int) *PageMeta {
	page := 1
	if p.Page != nil && *p.Page > 1 {
		page = *p.Page
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &PageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
