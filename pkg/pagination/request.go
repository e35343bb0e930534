package pagination

// Request represents an offset-based pagination request bound from query
// parameters.
type Request struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

// Normalize clamps page and limit into valid ranges, applying the
// endpoint's default page size when limit is unset.
func (r *Request) Normalize(defaultLimit int) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit > PageMaxSize {
		r.Limit = PageMaxSize
	}
}

// Offset returns the row offset for the normalized request.
func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}
