// Package paging holds the pagination arithmetic shared by list endpoints.
package paging

// Clamp normalizes a requested page/pageSize pair. Page numbers start at 1;
// a non-positive or missing size falls back to def, and size never exceeds max.
func Clamp(page, size, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return page, size
}

// Offset returns the row offset for a 1-based page.
func Offset(page, size int) int {
	return (page - 1) * size
}

// Pages returns the total page count for a result set, 0 when empty.
func Pages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
