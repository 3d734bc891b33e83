package query

// Meta is the pagination block of the upstream list envelope.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// PageInfo is the normalized pagination shape consumed by list views.
type PageInfo struct {
	TotalRecord int `json:"totalRecord"`
	CurrentPage int `json:"currentPage"`
	TotalPage   int `json:"totalPage"`
	SetLimit    int `json:"setLimit"`
}

// Normalize flattens upstream meta into the page shape list views expect.
func Normalize(m Meta) PageInfo {
	return PageInfo{
		TotalRecord: m.Total,
		CurrentPage: m.Page,
		TotalPage:   m.Pages,
		SetLimit:    m.Limit,
	}
}

// EmptyPage is the sentinel returned when a list fetch fails: callers render
// an empty table instead of an error.
func EmptyPage(p ListParams) PageInfo {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	return PageInfo{CurrentPage: page, SetLimit: limit}
}
