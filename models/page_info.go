package models

// PageInfo carries pagination metadata computed over the filtered result set.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0, pageSize >= 1, page >= 1
// POST: TotalPages = ceil(total / pageSize); page is not clamped so pages past the
// end are empty rather than repeating the last page.
func NewPageInfo(page, pageSize, total int) PageInfo {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return PageInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: pages,
	}
}

// Bounds returns the [start, end) slice indices for the current page. Pages past
// the end yield (TotalCount, TotalCount); the comparison runs before any
// multiplication so huge page numbers cannot overflow.
func (p PageInfo) Bounds() (start, end int) {
	if p.Page < 1 || p.PageSize < 1 || p.Page-1 >= p.TotalPages {
		return p.TotalCount, p.TotalCount
	}
	start = (p.Page - 1) * p.PageSize
	return start, start + min(p.PageSize, p.TotalCount-start)
}

func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}
