package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/constants"
	apierrors "github.com/truehomes/truehomes-api/internal/errors"
	"github.com/truehomes/truehomes-api/internal/middleware"
	"github.com/truehomes/truehomes-api/internal/models"
	"github.com/truehomes/truehomes-api/internal/repository"
	"github.com/truehomes/truehomes-api/internal/services"
	"github.com/truehomes/truehomes-api/internal/storage"
	"github.com/truehomes/truehomes-api/internal/utils"
	"golang.org/x/sync/errgroup"
)

// ListingHandler coordinates listing HTTP handlers.
type ListingHandler struct {
	listingService *services.ListingService
	uploader       storage.ObjectUploader
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService *services.ListingService, uploader storage.ObjectUploader) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		uploader:       uploader,
	}
}

// Create stores a new listing owned by the authenticated user.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	type CreateListingRequest struct {
		Name          string   `json:"name" binding:"required"`
		Description   string   `json:"description"`
		Address       string   `json:"address"`
		Type          string   `json:"type" binding:"required,oneof=sale rent"`
		Bedrooms      int      `json:"bedrooms" binding:"min=0"`
		Bathrooms     int      `json:"bathrooms" binding:"min=0"`
		RegularPrice  int64    `json:"regular_price" binding:"required,min=0"`
		DiscountPrice int64    `json:"discount_price" binding:"min=0"`
		Parking       bool     `json:"parking"`
		Furnished     bool     `json:"furnished"`
		Offer         bool     `json:"offer"`
		ImageURLs     []string `json:"image_urls" binding:"required,min=1,max=6"`
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	listing, err := h.listingService.Create(userID, services.CreateListingInput{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Type:          models.ListingType(req.Type),
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		RegularPrice:  req.RegularPrice,
		DiscountPrice: req.DiscountPrice,
		Parking:       req.Parking,
		Furnished:     req.Furnished,
		Offer:         req.Offer,
		ImageURLs:     req.ImageURLs,
	})
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Update applies a partial update to the listing loaded by the ownership
// middleware.
func (h *ListingHandler) Update(c *gin.Context) {
	listing, ok := middleware.GetListing(c)
	if !ok {
		apierrors.InternalError(c, "Listing not found in context")
		return
	}

	type UpdateListingRequest struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Address       *string  `json:"address"`
		Type          *string  `json:"type" binding:"omitempty,oneof=sale rent"`
		Bedrooms      *int     `json:"bedrooms" binding:"omitempty,min=0"`
		Bathrooms     *int     `json:"bathrooms" binding:"omitempty,min=0"`
		RegularPrice  *int64   `json:"regular_price" binding:"omitempty,min=0"`
		DiscountPrice *int64   `json:"discount_price" binding:"omitempty,min=0"`
		Parking       *bool    `json:"parking"`
		Furnished     *bool    `json:"furnished"`
		Offer         *bool    `json:"offer"`
		ImageURLs     []string `json:"image_urls" binding:"omitempty,max=6"`
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateListingInput{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		RegularPrice:  req.RegularPrice,
		DiscountPrice: req.DiscountPrice,
		Parking:       req.Parking,
		Furnished:     req.Furnished,
		Offer:         req.Offer,
		ImageURLs:     req.ImageURLs,
	}
	if req.Type != nil {
		t := models.ListingType(*req.Type)
		input.Type = &t
	}

	updated, err := h.listingService.Update(&listing, input)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes the listing loaded by the ownership middleware.
func (h *ListingHandler) Delete(c *gin.Context) {
	listing, ok := middleware.GetListing(c)
	if !ok {
		apierrors.InternalError(c, "Listing not found in context")
		return
	}

	if err := h.listingService.Delete(listing.ID); err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing has been deleted",
	})
}

// Get returns a single listing. Public.
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.listingService.Get(listingID)
	if err != nil {
		respondListingError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Search returns listings matching the query parameters. Public.
func (h *ListingHandler) Search(c *gin.Context) {
	params := utils.GetSearchParams(c)

	filter := repository.ListingFilter{
		SearchTerm: c.Query("searchTerm"),
		Offer:      triState(c.Query("offer")),
		Furnished:  triState(c.Query("furnished")),
		Parking:    triState(c.Query("parking")),
		Sort:       c.DefaultQuery("sort", "created_at"),
		Order:      c.DefaultQuery("order", "desc"),
		Limit:      params.Limit,
		StartIndex: params.StartIndex,
	}

	switch t := c.Query("type"); t {
	case string(models.ListingTypeSale), string(models.ListingTypeRent):
		filter.Types = []models.ListingType{models.ListingType(t)}
	case "", "all":
		// no type filter
	default:
		apierrors.BadRequest(c, "Invalid listing type")
		return
	}

	listings, err := h.listingService.Search(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to search listings")
		return
	}

	c.JSON(http.StatusOK, listings)
}

// Upload receives up to six image files, stores each in the object store and
// returns their public URLs. The batch is all-or-nothing: a single failed
// upload aborts the request, and temp files are removed on every exit path.
func (h *ListingHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid form data")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		apierrors.BadRequest(c, "No files uploaded")
		return
	}
	if len(files) > constants.MaxListingImages {
		apierrors.BadRequest(c, fmt.Sprintf("At most %d images are allowed", constants.MaxListingImages))
		return
	}
	for _, file := range files {
		if file.Size > constants.MaxImageSize {
			apierrors.BadRequest(c, fmt.Sprintf("File %s exceeds the size limit", file.Filename))
			return
		}
	}

	tempDir, err := os.MkdirTemp("", "truehomes-upload-")
	if err != nil {
		apierrors.InternalError(c, "Failed to allocate scratch storage")
		return
	}
	defer os.RemoveAll(tempDir)

	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = filepath.Join(tempDir, fmt.Sprintf("%d%s", i, filepath.Ext(file.Filename)))
		if err := c.SaveUploadedFile(file, paths[i]); err != nil {
			apierrors.InternalError(c, "Failed to store uploaded file")
			return
		}
	}

	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, file := range files {
		g.Go(func() error {
			f, err := os.Open(paths[i])
			if err != nil {
				return err
			}
			defer f.Close()

			key := storage.ObjectKey("listings", file.Filename)
			url, err := h.uploader.Upload(ctx, key, file.Header.Get("Content-Type"), f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		apierrors.BadGateway(c, "Failed to upload images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrls": urls})
}

// triState maps "true"/"false" query values to a filter; anything else means
// "don't filter on this field".
func triState(value string) *bool {
	switch value {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

func respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidListing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrListingNotFound):
		apierrors.NotFound(c, "Listing not found")
	default:
		apierrors.InternalError(c, "")
	}
}
