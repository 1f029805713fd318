package erp

import (
	"errors"
	"fmt"
)

// Kind classifies an error from an ERP backend.
type Kind string

const (
	// KindAuthentication indicates the ERP rejected the session token.
	KindAuthentication Kind = "authentication"

	// KindNotFound indicates the requested shipment does not exist.
	KindNotFound Kind = "not_found"

	// KindUnprocessable indicates the request could not be processed.
	KindUnprocessable Kind = "unprocessable_entity"

	// KindTransport indicates the ERP could not be reached at all.
	KindTransport Kind = "transport"

	// KindUnknown is returned by KindOf for errors that did not
	// originate from an ERP backend.
	KindUnknown Kind = "unknown"
)

// Error represents an error from an ERP backend.
type Error struct {
	Backend    string
	Kind       Kind
	Message    string
	Detail     string // Upstream error message, if the ERP sent one
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Backend, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Backend, e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(backend string, kind Kind, message string) *Error {
	return &Error{
		Backend: backend,
		Kind:    kind,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithStatusCode adds the upstream HTTP status code to the error.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithDetail adds the upstream error message to the error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// KindOf returns the kind of an ERP error, or KindUnknown if err did
// not come from an ERP backend.
func KindOf(err error) Kind {
	var erpErr *Error
	if errors.As(err, &erpErr) {
		return erpErr.Kind
	}
	return KindUnknown
}

// IsAuthentication returns true if the ERP rejected the session token.
func IsAuthentication(err error) bool {
	return KindOf(err) == KindAuthentication
}

// IsNotFound returns true if the requested shipment does not exist.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsUnprocessable returns true if the request could not be processed.
func IsUnprocessable(err error) bool {
	return KindOf(err) == KindUnprocessable
}

// IsTransport returns true if the ERP could not be reached.
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}
