package shared

import (
	domain "github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
)

// ListQuery holds the paging and sorting parameters common to list endpoints
type ListQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToFilter converts the query into a normalized domain filter.
// Repositories whitelist OrderBy, so unknown fields fall back to their default.
func (q ListQuery) ToFilter() domain.Filter {
	filter := domain.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	return filter.Normalize()
}
