package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidReference is returned when a citation reference cannot be parsed
	// or a passage range is malformed
	ErrInvalidReference = errors.New("invalid reference")

	// ErrAmbiguousSelector is returned when both a single reference and a range
	// are supplied for the same request
	ErrAmbiguousSelector = errors.New("ambiguous selector")

	// ErrUnknownTree is returned when a citation tree is not found on a document
	ErrUnknownTree = errors.New("citation tree not found")

	// ErrUnknownDocument is returned when a document is not found
	ErrUnknownDocument = errors.New("document not found")

	// ErrUnknownReference is returned when a reference does not exist in a tree
	ErrUnknownReference = errors.New("reference not found")

	// ErrNavigationTooLarge is returned when a navigation expansion exceeds the
	// configured member cap
	ErrNavigationTooLarge = errors.New("navigation result too large")

	// ErrUnknownCollection is returned when a collection is not found
	ErrUnknownCollection = errors.New("collection not found")

	// ErrInvalidDateRange is returned when a date range expression cannot be parsed
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrUnsupportedMediaType is returned when a passage is requested in a media
	// type no transformer is registered for
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrIndexUnavailable is returned when every search backend failed
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidReferenceError represents an unparsable reference with context
type InvalidReferenceError struct {
	Ref    string
	Reason string
}

func (e *InvalidReferenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid reference '%s': %s", e.Ref, e.Reason)
	}
	return fmt.Sprintf("invalid reference '%s'", e.Ref)
}

func (e *InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

// NewInvalidReferenceError creates a new InvalidReferenceError
func NewInvalidReferenceError(ref, reason string) *InvalidReferenceError {
	return &InvalidReferenceError{Ref: ref, Reason: reason}
}

// UnknownTreeError represents a citation tree not found error with context
type UnknownTreeError struct {
	DocumentID string
	Tree       string
}

func (e *UnknownTreeError) Error() string {
	return fmt.Sprintf("citation tree '%s' not found on document '%s'", e.Tree, e.DocumentID)
}

func (e *UnknownTreeError) Is(target error) bool {
	return target == ErrUnknownTree
}

// NewUnknownTreeError creates a new UnknownTreeError
func NewUnknownTreeError(documentID, tree string) *UnknownTreeError {
	return &UnknownTreeError{DocumentID: documentID, Tree: tree}
}

// UnknownDocumentError represents a document not found error with context
type UnknownDocumentError struct {
	DocumentID string
}

func (e *UnknownDocumentError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *UnknownDocumentError) Is(target error) bool {
	return target == ErrUnknownDocument
}

// NewUnknownDocumentError creates a new UnknownDocumentError
func NewUnknownDocumentError(documentID string) *UnknownDocumentError {
	return &UnknownDocumentError{DocumentID: documentID}
}

// UnknownReferenceError represents a reference not found error with context
type UnknownReferenceError struct {
	DocumentID string
	Tree       string
	Ref        string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("reference '%s' not found in tree '%s' of document '%s'", e.Ref, e.Tree, e.DocumentID)
}

func (e *UnknownReferenceError) Is(target error) bool {
	return target == ErrUnknownReference
}

// NewUnknownReferenceError creates a new UnknownReferenceError
func NewUnknownReferenceError(documentID, tree, ref string) *UnknownReferenceError {
	return &UnknownReferenceError{DocumentID: documentID, Tree: tree, Ref: ref}
}

// NavigationTooLargeError is returned when expanding a citation node would
// produce more members than the configured cap
type NavigationTooLargeError struct {
	Ref     string
	Members int
	Cap     int
}

func (e *NavigationTooLargeError) Error() string {
	return fmt.Sprintf("navigating '%s' yields %d members, exceeding the cap of %d", e.Ref, e.Members, e.Cap)
}

func (e *NavigationTooLargeError) Is(target error) bool {
	return target == ErrNavigationTooLarge
}

// NewNavigationTooLargeError creates a new NavigationTooLargeError
func NewNavigationTooLargeError(ref string, members, cap int) *NavigationTooLargeError {
	return &NavigationTooLargeError{Ref: ref, Members: members, Cap: cap}
}

// UnknownCollectionError represents a collection not found error with context
type UnknownCollectionError struct {
	Identifier string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("collection '%s' not found", e.Identifier)
}

func (e *UnknownCollectionError) Is(target error) bool {
	return target == ErrUnknownCollection
}

// NewUnknownCollectionError creates a new UnknownCollectionError
func NewUnknownCollectionError(identifier string) *UnknownCollectionError {
	return &UnknownCollectionError{Identifier: identifier}
}

// InvalidDateRangeError represents an unparsable date range expression
type InvalidDateRangeError struct {
	Expr   string
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date range '%s': %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("invalid date range '%s'", e.Expr)
}

func (e *InvalidDateRangeError) Is(target error) bool {
	return target == ErrInvalidDateRange
}

// NewInvalidDateRangeError creates a new InvalidDateRangeError
func NewInvalidDateRangeError(expr, reason string) *InvalidDateRangeError {
	return &InvalidDateRangeError{Expr: expr, Reason: reason}
}

// UnsupportedMediaTypeError represents an unregistered media type with context
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("no transformer registered for media type '%s'", e.MediaType)
}

func (e *UnsupportedMediaTypeError) Is(target error) bool {
	return target == ErrUnsupportedMediaType
}

// NewUnsupportedMediaTypeError creates a new UnsupportedMediaTypeError
func NewUnsupportedMediaTypeError(mediaType string) *UnsupportedMediaTypeError {
	return &UnsupportedMediaTypeError{MediaType: mediaType}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
