// Package apperror defines the error taxonomy shared by handlers and the
// token service. Handlers map kinds to HTTP statuses; the wrapped stack is
// for logs only and never reaches a client.
package apperror

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies a DomainError for HTTP status mapping.
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindConflict       Kind = "CONFLICT"
	KindNotFound       Kind = "NOT_FOUND"
	KindAuthentication Kind = "AUTHENTICATION"
	KindConfiguration  Kind = "CONFIGURATION"
	KindInternal       Kind = "INTERNAL"
)

// DomainError carries a kind, a client-safe message and the stack captured
// where the error was raised.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

// New builds a DomainError of the given kind, capturing a stack at the call
// site unless err already carries one.
func New(kind Kind, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// Validation marks input rejected before any persistence.
func Validation(message string, err error) *DomainError {
	return New(KindValidation, message, err)
}

// Conflict marks a uniqueness violation such as a duplicate email.
func Conflict(message string, err error) *DomainError {
	return New(KindConflict, message, err)
}

// NotFound marks a missing or not-owned resource.
func NotFound(message string, err error) *DomainError {
	return New(KindNotFound, message, err)
}

// Authentication marks bad credentials or an unusable token.
func Authentication(message string, err error) *DomainError {
	return New(KindAuthentication, message, err)
}

// Configuration marks a deployment error such as an invalid signing key.
func Configuration(message string, err error) *DomainError {
	return New(KindConfiguration, message, err)
}

// Internal marks an unexpected failure; clients get a generic message.
func Internal(message string, err error) *DomainError {
	return New(KindInternal, message, err)
}
