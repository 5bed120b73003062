// Package pagination implements the page/page_size contract shared by all
// list endpoints: a fixed default page size of 10, a client-overridable
// maximum of 100, and next/previous page numbers computed from the total.
package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query holds the pagination query params. Embed it in an endpoint's query
// struct so the binder applies the defaults and bounds.
type Query struct {
	Page     int `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
	PageSize int `query:"page_size" json:"page_size,omitempty" default:"10" validate:"min=1,max=100"`
}

func (q Query) Limit() int {
	return q.PageSize
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Meta is the pagination envelope returned alongside list results.
type Meta struct {
	Total        int  `json:"total"`
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
}

// NewMeta computes the envelope for a query that matched total rows.
func NewMeta(q Query, total int) Meta {
	meta := Meta{
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	if q.Offset()+q.PageSize < total {
		next := q.Page + 1
		meta.NextPage = &next
	}
	if q.Page > 1 {
		prev := q.Page - 1
		meta.PreviousPage = &prev
	}

	return meta
}
