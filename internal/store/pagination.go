package store

// PaginationParams holds pagination input for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Pagination holds pagination output metadata.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// NewPaginationParams normalizes raw pagination input.
func NewPaginationParams(page, pageSize int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return PaginationParams{Page: page, PageSize: pageSize}
}

// Offset returns the SQL offset for the params.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func buildPagination(params PaginationParams, total int64) Pagination {
	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		Total:       total,
		TotalPages:  totalPages,
	}
}
