package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/constants"
	"github.com/truehomes/truehomes-api/internal/dto"
	apierrors "github.com/truehomes/truehomes-api/internal/errors"
	"github.com/truehomes/truehomes-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *services.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	_, err := h.authService.Signup(services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
	})
}

// Signin authenticates a user and sets the session cookie.
func (h *AuthHandler) Signin(c *gin.Context) {
	type SigninRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signin(services.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := h.setSessionCookie(c, user.ID); err != nil {
		apierrors.InternalError(c, "Failed to establish session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Google handles the federated login path: resolve or create the local
// account for the asserted identity, then establish a session.
func (h *AuthHandler) Google(c *gin.Context) {
	type GoogleRequest struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Photo string `json:"photo"`
	}

	var req GoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Google(services.GoogleInput{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := h.setSessionCookie(c, user.ID); err != nil {
		apierrors.InternalError(c, "Failed to establish session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Signout clears the session cookie.
func (h *AuthHandler) Signout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully signed out",
	})
}

// ForgotPassword mails a reset link. Unknown emails get the same generic
// success as known ones so the endpoint cannot enumerate accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrMailDelivery) {
			apierrors.BadGateway(c, "Failed to send the reset email")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check your email for the reset link",
	})
}

// ResetPassword redeems a reset token from the URL and stores the new
// password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.authService.ResetPassword(c.Param("token"), req.NewPassword)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, userID uint64) error {
	token, err := h.tokens.IssueSession(userID)
	if err != nil {
		return err
	}
	secure := gin.Mode() == gin.ReleaseMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, token, int(constants.SessionDuration.Seconds()), "/", "", secure, true)
	return nil
}

func clearSessionCookie(c *gin.Context) {
	secure := gin.Mode() == gin.ReleaseMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", secure, true)
}

func respondAuthError(c *gin.Context, err error) {
	var dup *services.DuplicateFieldError
	switch {
	case errors.As(err, &dup):
		if dup.Field == "username" {
			apierrors.UsernameTaken(c, dup.Error())
			return
		}
		apierrors.Conflict(c, dup.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrBadPassword):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenInvalid),
		errors.Is(err, services.ErrTokenStale):
		apierrors.BadRequest(c, "Invalid or expired token")
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		apierrors.InternalError(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
