package pagination

import "gorm.io/gorm"

const defaultPageSize = 50

type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 500 {
		p.PageSize = defaultPageSize
	}
	return p
}

// Scope applies limit/offset to a gorm query.
func (p Pagination) Scope(db *gorm.DB) *gorm.DB {
	n := p.normalized()
	return db.Limit(n.PageSize).Offset((n.Page - 1) * n.PageSize)
}

func (p Pagination) PageInfo(total int64) *PageInfo {
	n := p.normalized()
	return &PageInfo{Page: n.Page, PageSize: n.PageSize, TotalCount: total}
}
