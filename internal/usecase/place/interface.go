package place

import "context"

// Service defines the place operations exposed to the transport layer.
type Service interface {
	CreatePlace(ctx context.Context, in CreatePlaceRequest) (*PlaceResponse, error)
	UpdatePlace(ctx context.Context, in UpdatePlaceRequest) (*PlaceResponse, error)
	DeletePlace(ctx context.Context, in DeletePlaceRequest) (*DeletePlaceResponse, error)
	GetPlace(ctx context.Context, in GetPlaceRequest) (*PlaceResponse, error)
	ListPlacesByUser(ctx context.Context, in ListPlacesByUserRequest) (*ListPlacesResponse, error)
}

var _ Service = (*Usecase)(nil)
