package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Standardized APIError response
type APIError struct {
	StatusCode int    `json:"-"`              // HTTP status code, not included in the JSON body
	Code       string `json:"code,omitempty"` // Application-specific error code
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// FieldAPIError is an APIError with per-field details, used for validation
// failures that concern several request fields at once.
type FieldAPIError struct {
	APIError
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.StatusCode, gin.H{"error": err})
	c.Abort()
}

// RespondWithFieldErrors sends a validation error carrying a per-field map.
func RespondWithFieldErrors(c *gin.Context, message string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": &FieldAPIError{
		APIError: APIError{
			StatusCode: http.StatusBadRequest,
			Code:       ErrCodeValidationFailed,
			Message:    message,
		},
		Fields: fields,
	}})
	c.Abort()
}

// Common error codes
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_ERROR"
)

// Domain error codes, mirrored by the frontend to branch on specific
// rejection reasons.
const (
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeEmailExists           = "EMAIL_EXISTS"
	ErrCodePhoneExists           = "PHONE_ALREADY_EXISTS"
	ErrCodeAlreadySent           = "ALREADY_SENT"
	ErrCodeClientComplained      = "CLIENT_COMPLAINED"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeBusinessNotConfigured = "BUSINESS_NOT_CONFIGURED"
)
