package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusUsernameTaken is the non-standard status the original API used for a
// duplicate username on signup. Kept for client compatibility; duplicate
// email stays a regular 409.
const StatusUsernameTaken = 450

// APIError is the JSON envelope every handler-level failure is reduced to.
type APIError struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.StatusCode, err)
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, NewAPIError(http.StatusBadRequest, message))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, NewAPIError(http.StatusUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, NewAPIError(http.StatusForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, NewAPIError(http.StatusNotFound, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, NewAPIError(http.StatusConflict, message))
}

// UsernameTaken sends the compatibility 450 response
func UsernameTaken(c *gin.Context, message string) {
	if message == "" {
		message = "Username is already taken"
	}
	RespondWithError(c, NewAPIError(StatusUsernameTaken, message))
}

// BadGateway sends a 502 response for upstream (mail, object storage) failures
func BadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "Upstream service failure"
	}
	RespondWithError(c, NewAPIError(http.StatusBadGateway, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, NewAPIError(http.StatusInternalServerError, message))
}
