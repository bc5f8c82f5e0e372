package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation error",
			err:        NewValidationError("title", "Invalid value"),
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Invalid value of title",
		},
		{
			name:       "already exists maps to unprocessable",
			err:        NewAlreadyExistsError("user", "Email already exists, try with other email."),
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Email already exists, try with other email.",
		},
		{
			name:       "not found",
			err:        NewNotFoundError("place", ""),
			wantStatus: http.StatusNotFound,
			wantMsg:    "place not found",
		},
		{
			name:       "unauthorized",
			err:        NewUnauthorizedError("You are not allowed to delete this place."),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "You are not allowed to delete this place.",
		},
		{
			name:       "forbidden",
			err:        ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantMsg:    "Wrong User Credentials.",
		},
		{
			name:       "unresolved address",
			err:        NewAddressNotFoundError("nowhere"),
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Could not find location for the specified address.",
		},
		{
			name:       "geocode provider failure",
			err:        NewGeocodeProviderError("somewhere", errors.New("dial tcp: timeout")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Could not resolve the address, please try again.",
		},
		{
			name:       "internal error hides cause",
			err:        NewInternalError("Place deletion failed.", errors.New("pq: connection reset")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Place deletion failed.",
		},
		{
			name:       "wrapped typed error",
			err:        fmt.Errorf("handler: %w", NewNotFoundError("user", "User not found.")),
			wantStatus: http.StatusNotFound,
			wantMsg:    "User not found.",
		},
		{
			name:       "http error without code",
			err:        NewHTTPError(0, "odd"),
			wantStatus: StatusUnknown,
			wantMsg:    "odd",
		},
		{
			name:       "http error without message",
			err:        NewHTTPError(http.StatusTeapot, ""),
			wantStatus: http.StatusTeapot,
			wantMsg:    "Unknown error occured.",
		},
		{
			name:       "plain error",
			err:        errors.New("sql: database is closed"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Something went wrong.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := StatusAndMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError("Creating place failed, please try again.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestGeocodeError_Unwrap(t *testing.T) {
	cause := errors.New("status 503")
	err := NewGeocodeProviderError("1600 Amphitheatre Parkway", cause)

	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Unresolved)
}
