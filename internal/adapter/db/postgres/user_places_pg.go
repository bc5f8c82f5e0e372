package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserPlacesPG maintains the user_places table, the owner side of every place.
type UserPlacesPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserPlacesPG creates a new instance of UserPlacesPG.
func NewUserPlacesPG(db *gorm.DB, log *zap.Logger) *UserPlacesPG {
	return &UserPlacesPG{db: db, log: log}
}

// AddPlace appends placeID to the user's place list.
func (s *UserPlacesPG) AddPlace(ctx context.Context, userID, placeID string) error {
	row := UserPlaceSchema{UserID: userID, PlaceID: placeID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Error("failed to add place to user", zap.Error(err),
			zap.String("user_id", userID), zap.String("place_id", placeID))
		return fmt.Errorf("failed to add place to user: %w", err)
	}
	return nil
}

// RemovePlace drops placeID from the user's place list. Removing an absent
// entry is not an error.
func (s *UserPlacesPG) RemovePlace(ctx context.Context, userID, placeID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Delete(&UserPlaceSchema{}).Error
	if err != nil {
		s.log.Error("failed to remove place from user", zap.Error(err),
			zap.String("user_id", userID), zap.String("place_id", placeID))
		return fmt.Errorf("failed to remove place from user: %w", err)
	}
	return nil
}
