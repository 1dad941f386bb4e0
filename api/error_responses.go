package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cllg-project/TexTile-Backend/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidReference     ErrorCode = "INVALID_REFERENCE"
	ErrorCodeInvalidDateRange     ErrorCode = "INVALID_DATE_RANGE"
	ErrorCodeAmbiguousSelector    ErrorCode = "AMBIGUOUS_SELECTOR"
	ErrorCodeDocumentNotFound     ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeTreeNotFound         ErrorCode = "TREE_NOT_FOUND"
	ErrorCodeReferenceNotFound    ErrorCode = "REFERENCE_NOT_FOUND"
	ErrorCodeCollectionNotFound   ErrorCode = "COLLECTION_NOT_FOUND"
	ErrorCodeNavigationTooLarge   ErrorCode = "NAVIGATION_TOO_LARGE"
	ErrorCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"

	// Server Error Codes (5xx)
	ErrorCodeInternalError    ErrorCode = "INTERNAL_ERROR"
	ErrorCodeIndexUnavailable ErrorCode = "INDEX_UNAVAILABLE"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	c.JSON(statusCode, &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	})
}

// SendValidationError sends a parameter validation failure.
func SendValidationError(c *gin.Context, field, message string) {
	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
		ErrorDetail{Field: field, Message: message, Code: "VALIDATION_ERROR"})
}

// SendDomainError maps a service error onto the matching HTTP status and
// error code. Unrecognized errors become internal errors.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, apperrors.ErrAmbiguousSelector):
		SendError(c, http.StatusBadRequest, ErrorCodeAmbiguousSelector, err.Error())
	case stderrors.Is(err, apperrors.ErrInvalidReference):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidReference, err.Error())
	case stderrors.Is(err, apperrors.ErrInvalidDateRange):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidDateRange, err.Error())
	case stderrors.Is(err, apperrors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	case stderrors.Is(err, apperrors.ErrUnknownReference):
		SendError(c, http.StatusNotFound, ErrorCodeReferenceNotFound, err.Error())
	case stderrors.Is(err, apperrors.ErrUnknownTree):
		SendError(c, http.StatusNotFound, ErrorCodeTreeNotFound, err.Error())
	case stderrors.Is(err, apperrors.ErrUnknownDocument):
		SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, err.Error())
	case stderrors.Is(err, apperrors.ErrUnknownCollection):
		SendError(c, http.StatusNotFound, ErrorCodeCollectionNotFound, err.Error())
	case stderrors.Is(err, apperrors.ErrNavigationTooLarge):
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeNavigationTooLarge, err.Error())
	case stderrors.Is(err, apperrors.ErrUnsupportedMediaType):
		SendError(c, http.StatusUnsupportedMediaType, ErrorCodeUnsupportedMediaType, err.Error())
	case stderrors.Is(err, apperrors.ErrIndexUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeIndexUnavailable, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}
