package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/constants"
	"github.com/truehomes/truehomes-api/internal/database"
	apierrors "github.com/truehomes/truehomes-api/internal/errors"
	"github.com/truehomes/truehomes-api/internal/models"
)

// RequireListingOwner loads the listing addressed by :id and rejects the
// request unless the authenticated user owns it. The loaded listing is stored
// in the context so handlers don't fetch it twice.
func RequireListingOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		listingIDStr := c.Param("id")
		listingID, err := strconv.ParseUint(listingIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid listing ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		var listing models.Listing
		if err := database.GetDB().First(&listing, listingID).Error; err != nil {
			apierrors.NotFound(c, "Listing not found")
			c.Abort()
			return
		}

		if listing.UserID != userID {
			apierrors.Forbidden(c, "You can only modify your own listings")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyListing, listing)
		c.Next()
	}
}

// GetListing retrieves the listing loaded by RequireListingOwner.
func GetListing(c *gin.Context) (models.Listing, bool) {
	value, exists := c.Get(constants.ContextKeyListing)
	if !exists {
		return models.Listing{}, false
	}
	listing, ok := value.(models.Listing)
	return listing, ok
}
