package database

import (
	"gorm.io/gorm"

	"github.com/truehomes/truehomes-api/internal/utils"
)

// Paginate applies pagination to a GORM query. A non-positive limit means
// "no limit".
func Paginate(params utils.SearchParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit := params.Limit
		if limit <= 0 {
			limit = -1
		}
		return db.Offset(params.StartIndex).Limit(limit)
	}
}
