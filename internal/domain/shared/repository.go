package shared

// Filter carries list query options shared by every tenant repository
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Normalize clamps paging values into the accepted range
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	return f
}

// Offset is the row offset for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// TotalPages computes the page count for total rows at pageSize rows per page
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
