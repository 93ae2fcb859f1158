package services

import "errors"

// Kind classifies a service failure for the HTTP boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidOperation
	KindForbidden
	KindConflict
)

// Error is a service-level failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func InvalidOperation(msg string) error {
	return &Error{Kind: KindInvalidOperation, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// KindOf returns the error's kind, or KindUnknown for non-service errors.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}
