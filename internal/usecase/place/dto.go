package place

import domain "places-service/internal/domain/place"

// CreatePlaceRequest represents the request payload for creating a place.
// RequesterID is the authenticated caller and becomes the creator.
type CreatePlaceRequest struct {
	Title       string `validate:"required"`
	Description string `validate:"required,min=5"`
	Address     string `validate:"required"`
	Image       string
	RequesterID string
}

// UpdatePlaceRequest represents the request payload for updating a place.
type UpdatePlaceRequest struct {
	PlaceID     string
	Title       string `validate:"required"`
	Description string `validate:"required,min=5"`
	RequesterID string
}

// DeletePlaceRequest represents the request payload for deleting a place.
type DeletePlaceRequest struct {
	PlaceID     string
	RequesterID string
}

// DeletePlaceResponse represents the response payload after deleting a place.
type DeletePlaceResponse struct {
	Message string
}

// GetPlaceRequest represents the request payload for retrieving a place.
type GetPlaceRequest struct {
	PlaceID string
}

// ListPlacesByUserRequest represents the request payload for listing a user's places.
type ListPlacesByUserRequest struct {
	UserID string
}

// Location is the DTO form of a coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// PlaceResponse represents a place DTO for API responses.
type PlaceResponse struct {
	ID          string
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
	CreatorID   string
}

// ListPlacesResponse represents the response payload for place listing.
type ListPlacesResponse struct {
	Places []PlaceResponse
}

func toResponse(p *domain.Place) *PlaceResponse {
	return &PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    Location{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.Image,
		CreatorID:   p.CreatorID,
	}
}
