// Package apperrors classifies the expected failures of the catalog and the
// booking engine so that adapters can map them without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound              Kind = "NOT_FOUND"
	KindContention            Kind = "CONTENTION"
	KindInsufficientInventory Kind = "INSUFFICIENT_INVENTORY"
	KindInvalidInput          Kind = "INVALID_INPUT"
	KindInternal              Kind = "INTERNAL"
)

// Sentinels for errors.Is matching on kind.
var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrContention            = &Error{Kind: KindContention}
	ErrInsufficientInventory = &Error{Kind: KindInsufficientInventory}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrInternal              = &Error{Kind: KindInternal}
)

// Error is an expected, recoverable failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
