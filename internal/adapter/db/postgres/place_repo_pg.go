package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"places-service/internal/domain/place"
)

// PlaceRepoPG implements place storage using GORM. Bound to a transaction
// handle it also serves as the transactional place writer.
type PlaceRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPlaceRepoPG creates a new instance of PlaceRepoPG.
func NewPlaceRepoPG(db *gorm.DB, log *zap.Logger) *PlaceRepoPG {
	return &PlaceRepoPG{db: db, log: log}
}

// Create inserts a new place.
func (r *PlaceRepoPG) Create(ctx context.Context, p *place.Place) error {
	if p == nil {
		return errors.New("place cannot be nil")
	}

	model := fromPlace(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create place in db", zap.Error(err), zap.String("id", p.ID))
		return fmt.Errorf("failed to create place: %w", err)
	}

	r.log.Info("place created in db", zap.String("id", model.ID))
	return nil
}

// Update writes title and description of an existing place.
func (r *PlaceRepoPG) Update(ctx context.Context, p *place.Place) error {
	if p == nil {
		return errors.New("place cannot be nil")
	}

	res := r.db.WithContext(ctx).
		Model(&PlaceSchema{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{"title": p.Title, "description": p.Description})
	if res.Error != nil {
		r.log.Error("failed to update place in db", zap.Error(res.Error), zap.String("id", p.ID))
		return fmt.Errorf("failed to update place: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update place: id=%s: %w", p.ID, place.ErrNotFound)
	}

	r.log.Info("place updated in db", zap.String("id", p.ID))
	return nil
}

// Delete removes a place by ID. Deleting a missing place is an error.
func (r *PlaceRepoPG) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PlaceSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete place in db", zap.Error(res.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete place: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete place: id=%s: %w", id, place.ErrNotFound)
	}

	r.log.Info("place deleted in db", zap.String("id", id))
	return nil
}

// GetByID retrieves a place by ID. It returns nil, nil when the place does not exist.
func (r *PlaceRepoPG) GetByID(ctx context.Context, id string) (*place.Place, error) {
	var model PlaceSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("place not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get place from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	return toPlace(model), nil
}

// ListByCreator retrieves the places created by a user, oldest first.
func (r *PlaceRepoPG) ListByCreator(ctx context.Context, creatorID string) ([]place.Place, error) {
	var models []PlaceSchema
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list places from db", zap.Error(err), zap.String("creator_id", creatorID))
		return nil, fmt.Errorf("failed to list places: %w", err)
	}

	places := make([]place.Place, len(models))
	for i, m := range models {
		places[i] = *toPlace(m)
	}
	return places, nil
}

func fromPlace(p *place.Place) PlaceSchema {
	return PlaceSchema{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Lat:         p.Location.Lat,
		Lng:         p.Location.Lng,
		Image:       p.Image,
		CreatorID:   p.CreatorID,
	}
}

func toPlace(m PlaceSchema) *place.Place {
	return &place.Place{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Address:     m.Address,
		Location:    place.Location{Lat: m.Lat, Lng: m.Lng},
		Image:       m.Image,
		CreatorID:   m.CreatorID,
	}
}
