// Package apperrors defines the error kinds shared by services and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrMalformedRequest = errors.New("malformed request")
	ErrAuthentication   = errors.New("authentication error")
	ErrAuthorization    = errors.New("authorization error")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInfrastructure   = errors.New("infrastructure error")
)

// Error carries a kind, the resource it concerns, a client-facing message and
// an optional underlying cause.
type Error struct {
	Kind     error
	Resource string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func MalformedRequest(format string, args ...any) error {
	return &Error{Kind: ErrMalformedRequest, Message: fmt.Sprintf(format, args...)}
}

// Authentication wraps the specific reason a credential was rejected.
func Authentication(cause error) error {
	return &Error{Kind: ErrAuthentication, Message: "not authenticated", Cause: cause}
}

func Forbidden() error {
	return &Error{Kind: ErrAuthorization, Message: "not enough permissions"}
}

// NotFound reports that the named resource does not exist.
func NotFound(resource string) error {
	return &Error{Kind: ErrNotFound, Resource: resource, Message: resource + " not found"}
}

func Conflict(resource, format string, args ...any) error {
	return &Error{Kind: ErrConflict, Resource: resource, Message: fmt.Sprintf(format, args...)}
}

// Infrastructure wraps a store or broker failure. These are never recovered.
func Infrastructure(op string, cause error) error {
	return &Error{Kind: ErrInfrastructure, Message: op, Cause: cause}
}

// ResourceOf returns the resource named by err, if any.
func ResourceOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Resource
	}
	return ""
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
