package scheduling

import (
	"errors"
	"fmt"
)

// Kind classifies scheduling failures so callers can map them to transport
// semantics (404 vs 409) without parsing messages.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
)

// Error is the typed failure returned by every scheduling operation.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsValidation reports whether err is a malformed-input failure.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsNotFound reports whether err is an absent-record failure.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsConflict reports whether err is a scheduling conflict: an unavailable
// slot, a detected overlap, a lost booking race, or a rejected batch.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }
