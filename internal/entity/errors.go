package entity

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; wrap with NewError.
var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation failed")
	ErrUpstream       = errors.New("upstream failure")
	ErrPartialCascade = errors.New("partial cascade failure")
)

// DomainError carries a kind, a caller-facing message and the underlying cause.
type DomainError struct {
	Kind    error
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	return e.Kind == target
}

func NewError(kind error, message string, cause error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Err: cause}
}

func NotFound(format string, args ...interface{}) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf(format, args...), nil)
}

func Validation(format string, args ...interface{}) *DomainError {
	return NewError(ErrValidation, fmt.Sprintf(format, args...), nil)
}

func Forbidden(format string, args ...interface{}) *DomainError {
	return NewError(ErrForbidden, fmt.Sprintf(format, args...), nil)
}

func Upstream(message string, cause error) *DomainError {
	return NewError(ErrUpstream, message, cause)
}

func PartialCascade(message string, cause error) *DomainError {
	return NewError(ErrPartialCascade, message, cause)
}

// Message returns the caller-facing message of err, without the wrapped cause.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
