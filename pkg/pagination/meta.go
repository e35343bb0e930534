package pagination

// Meta is the pagination envelope returned next to every listed resource.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewMeta computes the page count for a normalized request and total row
// count.
func NewMeta(r Request, total int64) Meta {
	pages := int((total + int64(r.Limit) - 1) / int64(r.Limit))

	return Meta{
		Page:  r.Page,
		Limit: r.Limit,
		Total: total,
		Pages: pages,
	}
}
