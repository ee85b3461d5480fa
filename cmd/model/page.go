package model

// MetaData describes one page of a larger result set. TotalCount always
// reflects the unpaginated total.
type MetaData struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
}

// PageList is one materialized page plus its metadata.
type PageList[T any] struct {
	Items    []T      `json:"items"`
	MetaData MetaData `json:"metaData"`
}

// NewMetaData computes the page count as ceil(total/pageSize).
func NewMetaData(total int64, pageNumber, pageSize int) MetaData {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return MetaData{
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  pages,
	}
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[T, U any](p *PageList[T], fn func(T) U) *PageList[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return &PageList[U]{Items: items, MetaData: p.MetaData}
}
