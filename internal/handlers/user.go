package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/dto"
	apierrors "github.com/truehomes/truehomes-api/internal/errors"
	"github.com/truehomes/truehomes-api/internal/middleware"
	"github.com/truehomes/truehomes-api/internal/services"
	"github.com/truehomes/truehomes-api/internal/storage"
)

// UserHandler coordinates self-service user HTTP handlers.
type UserHandler struct {
	userService    *services.UserService
	listingService *services.ListingService
	uploader       storage.ObjectUploader
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, listingService *services.ListingService, uploader storage.ObjectUploader) *UserHandler {
	return &UserHandler{
		userService:    userService,
		listingService: listingService,
		uploader:       uploader,
	}
}

// Update applies a partial update to the caller's own profile. Accepts JSON
// or multipart form data with an optional avatar file.
func (h *UserHandler) Update(c *gin.Context) {
	targetID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	input, ok := h.parseUpdateInput(c)
	if !ok {
		return
	}

	user, err := h.userService.Update(targetID, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Delete removes the caller's own account and clears the session cookie.
func (h *UserHandler) Delete(c *gin.Context) {
	targetID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(targetID); err != nil {
		respondUserError(c, err)
		return
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User has been deleted",
	})
}

// Listings returns the caller's own listings.
func (h *UserHandler) Listings(c *gin.Context) {
	targetID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	listings, err := h.listingService.ListByOwner(targetID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch listings")
		return
	}

	c.JSON(http.StatusOK, listings)
}

// requireSelf parses :id and rejects the request unless it addresses the
// authenticated user's own record.
func (h *UserHandler) requireSelf(c *gin.Context) (uint64, bool) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Authentication required")
		return 0, false
	}

	if targetID != userID {
		apierrors.Forbidden(c, "You can only manage your own account")
		return 0, false
	}

	return targetID, true
}

// respondUserError maps profile-update failures. Unlike signup, a duplicate
// field here is always a plain 409; the 450 compatibility status only applies
// to the signup path.
func respondUserError(c *gin.Context, err error) {
	var dup *services.DuplicateFieldError
	if errors.As(err, &dup) {
		apierrors.Conflict(c, dup.Error())
		return
	}
	respondAuthError(c, err)
}

func (h *UserHandler) parseUpdateInput(c *gin.Context) (services.UpdateUserInput, bool) {
	var input services.UpdateUserInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			apierrors.BadRequest(c, "Invalid form data")
			return input, false
		}

		formValue := func(key string) *string {
			if values, ok := form.Value[key]; ok && len(values) > 0 {
				return &values[0]
			}
			return nil
		}
		input.Username = formValue("username")
		input.Email = formValue("email")
		input.Password = formValue("password")

		if files, ok := form.File["avatar"]; ok && len(files) > 0 {
			header := files[0]
			file, err := header.Open()
			if err != nil {
				apierrors.BadRequest(c, "Failed to read avatar file")
				return input, false
			}
			defer file.Close()

			key := storage.ObjectKey("avatars", header.Filename)
			url, err := h.uploader.Upload(c.Request.Context(), key, header.Header.Get("Content-Type"), file)
			if err != nil {
				apierrors.BadGateway(c, "Failed to upload avatar")
				return input, false
			}
			input.Avatar = &url
		}
		return input, true
	}

	type UpdateUserRequest struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Avatar   *string `json:"avatar"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return input, false
	}

	input.Username = req.Username
	input.Email = req.Email
	input.Password = req.Password
	input.Avatar = req.Avatar
	return input, true
}
