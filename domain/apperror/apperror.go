// Package apperror defines the error taxonomy translated into response
// envelopes at the request boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/prasetyowira/starter/domain/status"
)

// DomainError is an expected business failure carrying its own status code.
type DomainError struct {
	code       status.Code
	message    string
	cause      error
	httpStatus int
}

// New returns a business error whose message is code described with args.
func New(code status.Code, args ...any) *DomainError {
	return &DomainError{code: code, message: code.Describe(args...)}
}

// Wrap returns a business error for code caused by cause.
func Wrap(code status.Code, cause error) *DomainError {
	return &DomainError{code: code, message: code.Msg(), cause: cause}
}

// WithHTTPStatus returns a copy of e answered with the given transport status
// instead of 200.
func (e *DomainError) WithHTTPStatus(httpStatus int) *DomainError {
	cp := *e
	cp.httpStatus = httpStatus
	return &cp
}

// Error implements error.
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error { return e.cause }

// Status returns the status code.
func (e *DomainError) Status() status.Code { return e.code }

// Message returns the client-facing message.
func (e *DomainError) Message() string { return e.message }

// HTTPStatus returns the transport status, 200 unless declared otherwise.
func (e *DomainError) HTTPStatus() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}

// HasStatus reports whether err wraps a DomainError with code.
func HasStatus(err error, code status.Code) bool {
	var de *DomainError
	return errors.As(err, &de) && de.code.Code() == code.Code()
}

// FieldError is one offending request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists the invalid fields of a request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field -> message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	v := &ValidationError{Fields: make([]FieldError, 0, len(names))}
	for _, name := range names {
		v.Fields = append(v.Fields, FieldError{Field: name, Message: fields[name]})
	}
	return v
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// RouteError reports a request that matched no handler.
type RouteError struct {
	Method           string
	Path             string
	MethodNotAllowed bool
}

// Error implements error.
func (e *RouteError) Error() string {
	if e.MethodNotAllowed {
		return fmt.Sprintf("method %s not supported for %s", e.Method, e.Path)
	}
	return fmt.Sprintf("no handler found for %s %s", e.Method, e.Path)
}

// MalformedBodyError reports a request body that could not be decoded.
type MalformedBodyError struct {
	Cause error
}

// Error implements error.
func (e *MalformedBodyError) Error() string {
	if e.Cause == nil {
		return "malformed request body"
	}
	return "malformed request body: " + e.Cause.Error()
}

// Unwrap returns the decoding error.
func (e *MalformedBodyError) Unwrap() error { return e.Cause }
