package services

import (
	"errors"
	"fmt"

	"github.com/truehomes/truehomes-api/internal/constants"
	"github.com/truehomes/truehomes-api/internal/models"
	"github.com/truehomes/truehomes-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidListing  = errors.New("invalid listing")
)

// ListingService handles listing CRUD and the public search. Ownership is
// enforced upstream by the listing-owner middleware.
type ListingService struct {
	listingRepo repository.ListingRepository
}

// NewListingService creates a new ListingService.
func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
	}
}

// CreateListingInput represents the fields of a new listing.
type CreateListingInput struct {
	Name          string
	Description   string
	Address       string
	Type          models.ListingType
	Bedrooms      int
	Bathrooms     int
	RegularPrice  int64
	DiscountPrice int64
	Parking       bool
	Furnished     bool
	Offer         bool
	ImageURLs     []string
}

// Create validates and stores a new listing owned by userID.
func (s *ListingService) Create(userID uint64, input CreateListingInput) (*models.Listing, error) {
	listing := &models.Listing{
		UserID:        userID,
		Name:          input.Name,
		Description:   input.Description,
		Address:       input.Address,
		Type:          input.Type,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		RegularPrice:  input.RegularPrice,
		DiscountPrice: input.DiscountPrice,
		Parking:       input.Parking,
		Furnished:     input.Furnished,
		Offer:         input.Offer,
		ImageURLs:     input.ImageURLs,
	}

	if err := validateListing(listing); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Create(listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

// UpdateListingInput carries the fields of a partial listing update. Nil
// fields are left untouched.
type UpdateListingInput struct {
	Name          *string
	Description   *string
	Address       *string
	Type          *models.ListingType
	Bedrooms      *int
	Bathrooms     *int
	RegularPrice  *int64
	DiscountPrice *int64
	Parking       *bool
	Furnished     *bool
	Offer         *bool
	ImageURLs     []string
}

// Update applies a partial update to an already-loaded listing. The caller
// (ownership middleware) has verified the authenticated user owns it.
func (s *ListingService) Update(listing *models.Listing, input UpdateListingInput) (*models.Listing, error) {
	if input.Name != nil {
		listing.Name = *input.Name
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Address != nil {
		listing.Address = *input.Address
	}
	if input.Type != nil {
		listing.Type = *input.Type
	}
	if input.Bedrooms != nil {
		listing.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		listing.Bathrooms = *input.Bathrooms
	}
	if input.RegularPrice != nil {
		listing.RegularPrice = *input.RegularPrice
	}
	if input.DiscountPrice != nil {
		listing.DiscountPrice = *input.DiscountPrice
	}
	if input.Parking != nil {
		listing.Parking = *input.Parking
	}
	if input.Furnished != nil {
		listing.Furnished = *input.Furnished
	}
	if input.Offer != nil {
		listing.Offer = *input.Offer
	}
	if input.ImageURLs != nil {
		listing.ImageURLs = input.ImageURLs
	}

	if err := validateListing(listing); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return listing, nil
}

// Delete removes a listing. Ownership is verified upstream.
func (s *ListingService) Delete(id uint64) error {
	return s.listingRepo.Delete(id)
}

// Get retrieves a single listing.
func (s *ListingService) Get(id uint64) (*models.Listing, error) {
	listing, err := s.listingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return listing, nil
}

// Search retrieves listings matching the public search filter.
func (s *ListingService) Search(filter repository.ListingFilter) ([]models.Listing, error) {
	return s.listingRepo.Search(filter)
}

// ListByOwner retrieves all listings owned by a user.
func (s *ListingService) ListByOwner(userID uint64) ([]models.Listing, error) {
	return s.listingRepo.ListByOwner(userID)
}

func validateListing(l *models.Listing) error {
	if l.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidListing)
	}
	if l.Type != models.ListingTypeSale && l.Type != models.ListingTypeRent {
		return fmt.Errorf("%w: type must be sale or rent", ErrInvalidListing)
	}
	if len(l.ImageURLs) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrInvalidListing)
	}
	if len(l.ImageURLs) > constants.MaxListingImages {
		return fmt.Errorf("%w: at most %d images are allowed", ErrInvalidListing, constants.MaxListingImages)
	}
	if l.RegularPrice < 0 || l.DiscountPrice < 0 {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidListing)
	}
	if l.Offer && l.DiscountPrice > l.RegularPrice {
		return fmt.Errorf("%w: discount price must not exceed regular price", ErrInvalidListing)
	}
	return nil
}
