package place

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"places-service/internal/adapter/cache"
	"places-service/internal/domain"
	placedomain "places-service/internal/domain/place"
	userdomain "places-service/internal/domain/user"
	apperrors "places-service/pkg/errors"
	"places-service/pkg/logger"
	"places-service/pkg/metrics"
)

// Repository defines read and single-row write access to places.
// GetByID returns nil, nil when the place does not exist.
type Repository interface {
	GetByID(ctx context.Context, id string) (*placedomain.Place, error)
	ListByCreator(ctx context.Context, creatorID string) ([]placedomain.Place, error)
	Update(ctx context.Context, p *placedomain.Place) error
}

// UserReader looks up the owner of a new place.
// GetByID returns nil, nil when the user does not exist.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// PlaceWriter writes place rows inside a transaction.
type PlaceWriter interface {
	Create(ctx context.Context, p *placedomain.Place) error
	Delete(ctx context.Context, id string) error
}

// OwnerWriter maintains a user's place list inside a transaction.
type OwnerWriter interface {
	AddPlace(ctx context.Context, userID, placeID string) error
	RemovePlace(ctx context.Context, userID, placeID string) error
}

// TxStores are the writers bound to one open transaction.
type TxStores interface {
	Places() PlaceWriter
	Owners() OwnerWriter
}

// Transactor runs fn inside a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error
}

// Geocoder resolves a postal address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (placedomain.Location, error)
}

// ImageRemover deletes stored images.
type ImageRemover interface {
	Remove(path string) error
}

// Usecase coordinates place mutations. It is the only writer of both the
// place rows and the owners' place lists, and it enforces ownership.
type Usecase struct {
	places   Repository
	users    UserReader
	tx       Transactor
	geocoder Geocoder
	images   ImageRemover
	cache    cache.PlaceCache
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new place Usecase. If c is nil, cache eviction is skipped.
func New(
	places Repository,
	users UserReader,
	tx Transactor,
	geocoder Geocoder,
	images ImageRemover,
	c cache.PlaceCache,
	log *zap.Logger,
) *Usecase {
	return &Usecase{
		places:   places,
		users:    users,
		tx:       tx,
		geocoder: geocoder,
		images:   images,
		cache:    c,
		log:      log,
		validate: validator.New(),
	}
}

// CreatePlace geocodes the address and stores the place together with the
// owner's place list entry in one transaction.
func (uc *Usecase) CreatePlace(ctx context.Context, in CreatePlaceRequest) (*PlaceResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating place", zap.String("title", in.Title), zap.String("creator_id", in.RequesterID))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	location, err := uc.geocoder.Geocode(ctx, in.Address)
	if err != nil {
		log.Warn("geocoding failed", zap.String("address", in.Address), zap.Error(err))
		var geoErr *apperrors.GeocodeError
		if errors.As(err, &geoErr) {
			return nil, geoErr
		}
		return nil, apperrors.NewGeocodeProviderError(in.Address, err)
	}

	creatorID, ok := domain.NormalizeID(in.RequesterID)
	if !ok {
		log.Warn("requester id is not a valid identifier", zap.String("requester_id", in.RequesterID))
		return nil, apperrors.NewNotFoundError("user", "User not found.")
	}

	created := &placedomain.Place{
		ID:          domain.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    location,
		Image:       in.Image,
		CreatorID:   creatorID,
	}

	owner, err := uc.users.GetByID(ctx, creatorID)
	if err != nil {
		log.Error("failed to load place owner", zap.String("user_id", creatorID), zap.Error(err))
		return nil, apperrors.NewInternalError("Something went wrong.", err)
	}
	if owner == nil {
		log.Warn("place owner not found", zap.String("user_id", creatorID))
		return nil, apperrors.NewNotFoundError("user", "User not found.")
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context, s TxStores) error {
		if err := s.Places().Create(ctx, created); err != nil {
			return err
		}
		return s.Owners().AddPlace(ctx, owner.ID, created.ID)
	})
	if err != nil {
		log.Error("create place transaction failed", zap.String("place_id", created.ID), zap.Error(err))
		metrics.ObservePlaceMutation("create", metrics.OutcomeFailure)
		return nil, apperrors.NewInternalError("Creating place failed, please try again.", err)
	}

	metrics.ObservePlaceMutation("create", metrics.OutcomeSuccess)
	log.Info("place created", zap.String("place_id", created.ID))
	return toResponse(created), nil
}

// UpdatePlace changes title and description of a place owned by the requester.
func (uc *Usecase) UpdatePlace(ctx context.Context, in UpdatePlaceRequest) (*PlaceResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating place", zap.String("place_id", in.PlaceID))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	p, err := uc.findPlace(ctx, in.PlaceID)
	if err != nil {
		return nil, err
	}

	if !domain.SameID(p.CreatorID, in.RequesterID) {
		log.Warn("update rejected: requester is not the creator",
			zap.String("place_id", p.ID), zap.String("requester_id", in.RequesterID))
		return nil, apperrors.NewUnauthorizedError("You are not allowed to edit this place.")
	}

	updated := *p
	updated.Title = in.Title
	updated.Description = in.Description

	if err := uc.places.Update(ctx, &updated); err != nil {
		metrics.ObservePlaceMutation("update", metrics.OutcomeFailure)
		if errors.Is(err, placedomain.ErrNotFound) {
			log.Warn("place vanished before update", zap.String("place_id", p.ID))
			return nil, errPlaceNotFound()
		}
		log.Error("failed to update place", zap.String("place_id", p.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Place updation failed.", err)
	}

	metrics.ObservePlaceMutation("update", metrics.OutcomeSuccess)
	return toResponse(&updated), nil
}

// DeletePlace removes a place owned by the requester together with the
// owner's place list entry in one transaction, then drops its image.
func (uc *Usecase) DeletePlace(ctx context.Context, in DeletePlaceRequest) (*DeletePlaceResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting place", zap.String("place_id", in.PlaceID))

	p, err := uc.findPlace(ctx, in.PlaceID)
	if err != nil {
		return nil, err
	}

	if !domain.SameID(p.CreatorID, in.RequesterID) {
		log.Warn("delete rejected: requester is not the creator",
			zap.String("place_id", p.ID), zap.String("requester_id", in.RequesterID))
		return nil, apperrors.NewUnauthorizedError("You are not allowed to delete this place.")
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context, s TxStores) error {
		if err := s.Places().Delete(ctx, p.ID); err != nil {
			return err
		}
		return s.Owners().RemovePlace(ctx, p.CreatorID, p.ID)
	})
	if err != nil {
		metrics.ObservePlaceMutation("delete", metrics.OutcomeFailure)
		if errors.Is(err, placedomain.ErrNotFound) {
			log.Warn("place vanished before delete", zap.String("place_id", p.ID))
			return nil, errPlaceNotFound()
		}
		log.Error("delete place transaction failed", zap.String("place_id", p.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Place deletion failed.", err)
	}
	metrics.ObservePlaceMutation("delete", metrics.OutcomeSuccess)

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, p.ID); err != nil {
			log.Warn("failed to invalidate cache after delete", zap.String("place_id", p.ID), zap.Error(err))
		}
	}

	if p.Image != "" && uc.images != nil {
		if err := uc.images.Remove(p.Image); err != nil {
			log.Warn("failed to remove place image", zap.String("image", p.Image), zap.Error(err))
		}
	}

	return &DeletePlaceResponse{Message: "Deleted successfully"}, nil
}

// GetPlace retrieves a single place by ID.
func (uc *Usecase) GetPlace(ctx context.Context, in GetPlaceRequest) (*PlaceResponse, error) {
	p, err := uc.findPlace(ctx, in.PlaceID)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// ListPlacesByUser retrieves every place created by a user.
// A user without places is reported as not found.
func (uc *Usecase) ListPlacesByUser(ctx context.Context, in ListPlacesByUserRequest) (*ListPlacesResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	notFound := apperrors.NewNotFoundError("place", "Could not find a place for provided user id.")

	userID, ok := domain.NormalizeID(in.UserID)
	if !ok {
		log.Debug("list places: malformed user id", zap.String("user_id", in.UserID))
		return nil, notFound
	}

	places, err := uc.places.ListByCreator(ctx, userID)
	if err != nil {
		log.Error("failed to list places", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewInternalError("Something went wrong.", err)
	}
	if len(places) == 0 {
		return nil, notFound
	}

	out := make([]PlaceResponse, len(places))
	for i := range places {
		out[i] = *toResponse(&places[i])
	}
	return &ListPlacesResponse{Places: out}, nil
}

// findPlace loads a place, mapping absence and malformed IDs to NotFound.
func (uc *Usecase) findPlace(ctx context.Context, rawID string) (*placedomain.Place, error) {
	log := logger.WithContext(ctx, uc.log)
	notFound := errPlaceNotFound()

	id, ok := domain.NormalizeID(rawID)
	if !ok {
		log.Debug("malformed place id", zap.String("place_id", rawID))
		return nil, notFound
	}

	p, err := uc.places.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to get place", zap.String("place_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("Something went wrong, could not find a place.", err)
	}
	if p == nil {
		return nil, notFound
	}
	return p, nil
}

func errPlaceNotFound() error {
	return apperrors.NewNotFoundError("place", "Could not find a place for provided id.")
}
