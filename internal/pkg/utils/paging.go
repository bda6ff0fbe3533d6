package utils

import (
	"math"
	"strconv"
)

// MaxPageSize caps the size query parameter of paged listings.
const MaxPageSize = 100

// MaxPage keeps page*size within int32 for every allowed size.
const MaxPage = math.MaxInt32 / MaxPageSize

// PageParams parses zero-based page and size query values. Missing or
// invalid values fall back to page 0 and defaultSize. Pages past MaxPage are
// clamped.
func PageParams(pageStr, sizeStr string, defaultSize int) (page, size int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		page = 0
	}
	size, err = strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page > MaxPage {
		page = MaxPage
	}
	return page, size
}

// ParseID parses a positive path id.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
