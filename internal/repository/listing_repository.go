package repository

import (
	"strings"

	"github.com/truehomes/truehomes-api/internal/database"
	"github.com/truehomes/truehomes-api/internal/models"
	"github.com/truehomes/truehomes-api/internal/utils"
	"gorm.io/gorm"
)

// GormListingRepository is a GORM implementation of ListingRepository
type GormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &GormListingRepository{db: db}
}

// Create creates a new listing
func (r *GormListingRepository) Create(listing *models.Listing) error {
	return r.db.Create(listing).Error
}

// FindByID finds a listing by ID
func (r *GormListingRepository) FindByID(id uint64) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListByOwner retrieves all listings owned by a user, newest first
func (r *GormListingRepository) ListByOwner(userID uint64) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Search retrieves listings matching the filter
func (r *GormListingRepository) Search(filter ListingFilter) ([]models.Listing, error) {
	var listings []models.Listing

	query := r.db.Model(&models.Listing{})

	if filter.SearchTerm != "" {
		// LOWER on both sides keeps the match case-insensitive on postgres
		// and sqlite alike.
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.SearchTerm)+"%")
	}
	if filter.Offer != nil {
		query = query.Where("offer = ?", *filter.Offer)
	}
	if filter.Furnished != nil {
		query = query.Where("furnished = ?", *filter.Furnished)
	}
	if filter.Parking != nil {
		query = query.Where("parking = ?", *filter.Parking)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}

	sort := filter.Sort
	if sort != "regular_price" {
		sort = "created_at"
	}
	order := filter.Order
	if order != "asc" {
		order = "desc"
	}
	query = query.Order(sort + " " + order)

	query = query.Scopes(database.Paginate(utils.SearchParams{
		Limit:      filter.Limit,
		StartIndex: filter.StartIndex,
	}))

	if err := query.Find(&listings).Error; err != nil {
		return nil, err
	}

	return listings, nil
}

// Update persists changes to an existing listing
func (r *GormListingRepository) Update(listing *models.Listing) error {
	return r.db.Save(listing).Error
}

// Delete removes a listing
func (r *GormListingRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Listing{}, id).Error
}
