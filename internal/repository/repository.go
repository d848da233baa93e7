package repository

import (
	"github.com/truehomes/truehomes-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email (stored lowercase)
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to an existing user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	// Create creates a new listing
	Create(listing *models.Listing) error

	// FindByID finds a listing by ID
	FindByID(id uint64) (*models.Listing, error)

	// ListByOwner retrieves all listings owned by a user
	ListByOwner(userID uint64) ([]models.Listing, error)

	// Search retrieves listings matching the filter
	Search(filter ListingFilter) ([]models.Listing, error)

	// Update persists changes to an existing listing
	Update(listing *models.Listing) error

	// Delete removes a listing
	Delete(id uint64) error
}

// ListingFilter holds filtering options for the public listing search
type ListingFilter struct {
	SearchTerm string
	Offer      *bool
	Furnished  *bool
	Parking    *bool
	Types      []models.ListingType
	Sort       string // "created_at" or "regular_price"
	Order      string // "asc" or "desc"
	Limit      int
	StartIndex int
}
