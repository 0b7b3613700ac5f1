package database

import (
	"gorm.io/gorm"
)

// MaxPageSize caps Paginate.
const MaxPageSize = 100

// Paginate applies limit/offset, clamping limit to 1..MaxPageSize and
// offset to >= 0.
func Paginate(limit, offset, defaultLimit int) func(db *gorm.DB) *gorm.DB {
	limit, offset = ClampPage(limit, offset, defaultLimit)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// ClampPage normalizes a limit/offset pair.
func ClampPage(limit, offset, defaultLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// WhereIf conditionally adds a where clause
func WhereIf(condition bool, query any, args ...any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if condition {
			return db.Where(query, args...)
		}
		return db
	}
}
