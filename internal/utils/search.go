package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/constants"
)

// SearchParams holds the pagination parameters of the public listing search
type SearchParams struct {
	Limit      int
	StartIndex int
}

// GetSearchParams extracts and validates pagination parameters from the request
func GetSearchParams(c *gin.Context) SearchParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultSearchLimit)))
	startIndex, _ := strconv.Atoi(c.DefaultQuery("startIndex", "0"))

	if limit <= 0 || limit > 100 {
		limit = constants.DefaultSearchLimit
	}
	if startIndex < 0 {
		startIndex = 0
	}

	return SearchParams{
		Limit:      limit,
		StartIndex: startIndex,
	}
}
