package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrInternal     = NewInternalError("Something went wrong.", nil)
	ErrUnauthorized = NewUnauthorizedError("Authentication failed!")
	ErrForbidden    = NewForbiddenError("Wrong User Credentials.")
)

// StatusUnknown is reported for an HTTPError that carries no status code.
const StatusUnknown = 505

// HTTPStatuser is implemented by errors that know their HTTP status.
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s of %s", e.Message, e.Field)
	}
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a resource already exists error.
// Clients see it as a validation failure.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// UnauthorizedError is returned when the caller is not authenticated or
// does not own the resource it tries to change.
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// ForbiddenError is returned for rejected credentials.
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *ForbiddenError) HTTPStatus() int {
	return http.StatusForbidden
}

// GeocodeError represents a failure to resolve an address.
// Unresolvable addresses are client errors, provider failures are not.
type GeocodeError struct {
	Address    string
	Message    string
	Unresolved bool
	Err        error
}

// NewAddressNotFoundError creates a geocode error for an address without a match.
func NewAddressNotFoundError(address string) *GeocodeError {
	return &GeocodeError{
		Address:    address,
		Message:    "Could not find location for the specified address.",
		Unresolved: true,
	}
}

// NewGeocodeProviderError creates a geocode error for a failing provider.
func NewGeocodeProviderError(address string, err error) *GeocodeError {
	return &GeocodeError{
		Address: address,
		Message: "Could not resolve the address, please try again.",
		Err:     err,
	}
}

// Error implements the error interface
func (e *GeocodeError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *GeocodeError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *GeocodeError) HTTPStatus() int {
	if e.Unresolved {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPError is a free-form error with an explicit status code.
// A zero Code is reported as StatusUnknown.
type HTTPError struct {
	Code    int
	Message string
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *HTTPError) HTTPStatus() int {
	if e.Code == 0 {
		return StatusUnknown
	}
	return e.Code
}

// StatusAndMessage resolves the status code and the client-facing message for err.
// Internal causes are never part of the message.
func StatusAndMessage(err error) (int, string) {
	var internal *InternalError
	if errors.As(err, &internal) {
		return internal.HTTPStatus(), internal.Message
	}

	var statuser HTTPStatuser
	if errors.As(err, &statuser) {
		msg := ""
		if e, ok := statuser.(error); ok {
			msg = e.Error()
		}
		if msg == "" {
			msg = "Unknown error occured."
		}
		return statuser.HTTPStatus(), msg
	}

	return http.StatusInternalServerError, ErrInternal.Message
}
