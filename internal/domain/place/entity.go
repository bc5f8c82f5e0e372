package place

import "errors"

// ErrNotFound is returned by writes that match no place row.
var ErrNotFound = errors.New("place not found")

// Location is a resolved coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// Place represents a location record owned by exactly one user.
type Place struct {
	ID          string   // ID is the unique identifier for the place
	Title       string   // Title is the short name of the place
	Description string   // Description is free text about the place
	Address     string   // Address is the postal address as entered
	Location    Location // Location is resolved from Address at creation
	Image       string   // Image is the stored path of the uploaded image
	CreatorID   string   // CreatorID is the owning user and never changes
}
