package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindAuthRequired ErrorKind = iota + 1
	KindFetchFailed
	KindUpdateFailed
	KindRemoveFailed
	KindValidationFailed
	KindItemNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthRequired:
		return "AUTH_REQUIRED"
	case KindFetchFailed:
		return "FETCH_FAILED"
	case KindUpdateFailed:
		return "UPDATE_FAILED"
	case KindRemoveFailed:
		return "REMOVE_FAILED"
	case KindValidationFailed:
		return "VALIDATION_FAILED"
	case KindItemNotFound:
		return "ITEM_NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Error is the cart error type. Two errors match under errors.Is when their
// kinds are equal, so callers compare against the sentinels below.
type Error struct {
	Kind ErrorKind
	// Status and StatusText are set for failed remote calls.
	Status     int
	StatusText string
	Message    string
	Err        error
}

var (
	ErrAuthRequired     = &Error{Kind: KindAuthRequired, Message: "authentication required, please log in"}
	ErrFetchFailed      = &Error{Kind: KindFetchFailed, Message: "error fetching cart"}
	ErrUpdateFailed     = &Error{Kind: KindUpdateFailed, Message: "error updating quantity"}
	ErrRemoveFailed     = &Error{Kind: KindRemoveFailed, Message: "error removing item"}
	ErrValidationFailed = &Error{Kind: KindValidationFailed, Message: "validation failed"}
	ErrItemNotFound     = &Error{Kind: KindItemNotFound, Message: "item not in cart"}
)

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusText != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.StatusText)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewRemoteError builds a FetchFailed/UpdateFailed/RemoveFailed error for a
// non-success HTTP response.
func NewRemoteError(kind ErrorKind, status int, statusText string) *Error {
	base := kindBase(kind)
	return &Error{Kind: kind, Status: status, StatusText: statusText, Message: base.Message}
}

// NewTransportError wraps a failure that happened before any response.
func NewTransportError(kind ErrorKind, err error) *Error {
	base := kindBase(kind)
	return &Error{Kind: kind, Message: base.Message, Err: err}
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidationFailed, Message: fmt.Sprintf(format, args...)}
}

func NewItemNotFound(id string) *Error {
	return &Error{Kind: KindItemNotFound, Message: fmt.Sprintf("item %q not in cart", id)}
}

// KindOf returns the kind of a cart error, or 0 for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func kindBase(kind ErrorKind) *Error {
	switch kind {
	case KindFetchFailed:
		return ErrFetchFailed
	case KindUpdateFailed:
		return ErrUpdateFailed
	case KindRemoveFailed:
		return ErrRemoveFailed
	case KindAuthRequired:
		return ErrAuthRequired
	case KindItemNotFound:
		return ErrItemNotFound
	default:
		return ErrValidationFailed
	}
}
