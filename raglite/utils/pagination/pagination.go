package pagination

import "gorm.io/gorm"

// Page is the envelope returned by every list-style operation.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Clamp normalizes caller-supplied paging params: page is floored at 1,
// pageSize is floored at 1 and capped at maxPageSize.
func Clamp(page, pageSize, maxPageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Paginate counts the full result set of query, then fetches the requested
// page ordered by order with offset/limit. The query must already carry its
// model and filters; page and pageSize are assumed clamped. Count and Find
// run on separate sessions so the finishers don't pollute each other's
// statement.
func Paginate[T any](query *gorm.DB, order string, page, pageSize int) (Page[T], error) {
	result := Page[T]{Items: []T{}, Page: page, PageSize: pageSize}

	if err := query.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return result, err
	}

	offset := (page - 1) * pageSize
	err := query.Session(&gorm.Session{}).
		Order(order).
		Offset(offset).
		Limit(pageSize).
		Find(&result.Items).Error
	if err != nil {
		return result, err
	}
	return result, nil
}
