// Package domain holds helpers shared by the user and place entities.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier in canonical form.
func NewID() string {
	return uuid.NewString()
}

// NormalizeID returns the canonical text form of id.
// The second result is false when id is not a valid identifier.
func NormalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// SameID reports whether a and b name the same identifier.
// Malformed identifiers never match anything, themselves included.
func SameID(a, b string) bool {
	na, ok := NormalizeID(a)
	if !ok {
		return false
	}
	nb, ok := NormalizeID(b)
	if !ok {
		return false
	}
	return na == nb
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
