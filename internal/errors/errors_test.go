package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		sentinel error
		other    error
	}{
		{
			name:     "invalid reference with reason",
			err:      NewInvalidReferenceError("1..2", "empty level label"),
			wantMsg:  "invalid reference '1..2': empty level label",
			sentinel: ErrInvalidReference,
			other:    ErrUnknownReference,
		},
		{
			name:     "invalid reference without reason",
			err:      NewInvalidReferenceError("", ""),
			wantMsg:  "invalid reference ''",
			sentinel: ErrInvalidReference,
			other:    ErrInvalidInput,
		},
		{
			name:     "unknown tree",
			err:      NewUnknownTreeError("ms-1", "pages"),
			wantMsg:  "citation tree 'pages' not found on document 'ms-1'",
			sentinel: ErrUnknownTree,
			other:    ErrUnknownDocument,
		},
		{
			name:     "unknown document",
			err:      NewUnknownDocumentError("ms-404"),
			wantMsg:  "document with ID 'ms-404' not found",
			sentinel: ErrUnknownDocument,
			other:    ErrUnknownCollection,
		},
		{
			name:     "unknown reference",
			err:      NewUnknownReferenceError("ms-1", "folios", "9.9"),
			wantMsg:  "reference '9.9' not found in tree 'folios' of document 'ms-1'",
			sentinel: ErrUnknownReference,
			other:    ErrInvalidReference,
		},
		{
			name:     "navigation too large",
			err:      NewNavigationTooLargeError("1", 600, 500),
			wantMsg:  "navigating '1' yields 600 members, exceeding the cap of 500",
			sentinel: ErrNavigationTooLarge,
			other:    ErrUnknownReference,
		},
		{
			name:     "unknown collection",
			err:      NewUnknownCollectionError("missing"),
			wantMsg:  "collection 'missing' not found",
			sentinel: ErrUnknownCollection,
			other:    ErrUnknownDocument,
		},
		{
			name:     "invalid date range with reason",
			err:      NewInvalidDateRangeError("1400-800", "stop before start"),
			wantMsg:  "invalid date range '1400-800': stop before start",
			sentinel: ErrInvalidDateRange,
			other:    ErrInvalidInput,
		},
		{
			name:     "unsupported media type",
			err:      NewUnsupportedMediaTypeError("application/pdf"),
			wantMsg:  "no transformer registered for media type 'application/pdf'",
			sentinel: ErrUnsupportedMediaType,
			other:    ErrInvalidInput,
		},
		{
			name:     "validation error with field",
			err:      NewValidationError("page", "page out of range"),
			wantMsg:  "validation error for field 'page': page out of range",
			sentinel: ErrInvalidInput,
			other:    ErrInvalidDateRange,
		},
		{
			name:     "validation error without field",
			err:      NewValidationError("", "query is required"),
			wantMsg:  "validation error: query is required",
			sentinel: ErrInvalidInput,
			other:    ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("expected error to match %v", tt.sentinel)
			}
			if errors.Is(tt.err, tt.other) {
				t.Errorf("error should not match %v", tt.other)
			}
		})
	}
}

func TestWrappedSentinels(t *testing.T) {
	t.Run("wrapped ambiguous selector still matches", func(t *testing.T) {
		err := fmt.Errorf("cannot combine ref with start/end: %w", ErrAmbiguousSelector)
		if !errors.Is(err, ErrAmbiguousSelector) {
			t.Error("expected wrapped error to match ErrAmbiguousSelector")
		}
	})

	t.Run("wrapped typed error keeps its sentinel", func(t *testing.T) {
		err := fmt.Errorf("document 'ms-1': %w", NewUnknownTreeError("ms-1", "pages"))
		if !errors.Is(err, ErrUnknownTree) {
			t.Error("expected wrapped error to match ErrUnknownTree")
		}
		var typed *UnknownTreeError
		if !errors.As(err, &typed) || typed.Tree != "pages" {
			t.Errorf("expected typed UnknownTreeError, got %v", err)
		}
	})

	t.Run("index unavailable is a plain sentinel", func(t *testing.T) {
		if !errors.Is(ErrIndexUnavailable, ErrIndexUnavailable) {
			t.Error("sentinel should match itself")
		}
		if errors.Is(ErrIndexUnavailable, ErrInvalidInput) {
			t.Error("sentinels should not match each other")
		}
	})
}
