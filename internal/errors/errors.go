package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors (identity provider failures, bad tokens)
	ErrCodeAuthError          = "AUTH_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization rejection: signed in but not on the roster.
	// Distinct from AUTH_ERROR so the client can show the dedicated
	// access-denied screen instead of a generic banner.
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// Authorization errors on individual actions
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeOwnershipViolation = "OWNERSHIP_VIOLATION"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeMissingField = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Live read failures (transport/permission on subscriptions)
	ErrCodeSubscriptionError = "SUBSCRIPTION_ERROR"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// AuthError sends a 401 response for identity-provider failures
func AuthError(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication failed"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeAuthError, message))
}

// Unauthenticated sends a 401 response
func Unauthenticated(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeAuthError, message))
}

// Unauthorized sends a 403 UNAUTHORIZED response (not on the roster)
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "You are not a member of this team"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// OwnershipViolation sends a 403 response for actions on another user's data
func OwnershipViolation(c *gin.Context, message string) {
	if message == "" {
		message = "You can only modify your own tasks"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeOwnershipViolation, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeAlreadyExists, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
