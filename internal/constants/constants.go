package constants

import "time"

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyListing is the gin context key holding the listing loaded by
	// the ownership middleware.
	ContextKeyListing = "listing"

	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "access_token"

	// SessionDuration bounds both the cookie Max-Age and the token exp claim.
	SessionDuration = 10 * 24 * time.Hour
	// ResetTokenDuration bounds password-reset tokens.
	ResetTokenDuration = 10 * time.Minute

	MinPasswordLength = 8

	// MaxListingImages caps images per listing and per upload batch.
	MaxListingImages = 6
	// MaxImageSize caps a single uploaded file (100MB).
	MaxImageSize = 100 << 20

	// DefaultAvatarURL is assigned to local signups without an avatar.
	DefaultAvatarURL = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_1280.png"

	DefaultSearchLimit = 9
)
