package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"places-service/internal/domain/user"
)

// UserRepoPG implements the user Repository using GORM.
type UserRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// Create inserts a new user. A duplicate email is reported as user.ErrEmailTaken.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := UserSchema{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Image:    u.Image,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("email already taken", zap.String("email", u.Email))
			return user.ErrEmailTaken
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return nil
}

// GetByID retrieves a user together with its place list.
// It returns nil, nil when the user does not exist.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	placeIDs, err := r.placeIDs(ctx, []string{model.ID})
	if err != nil {
		return nil, err
	}

	return toUser(model, placeIDs[model.ID]), nil
}

// GetByEmail retrieves a user by email address.
// It returns nil, nil when no user has that email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toUser(model, nil), nil
}

// List retrieves every user with their place lists, oldest first.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(models) == 0 {
		return []user.User{}, nil
	}

	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	placeIDs, err := r.placeIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = *toUser(m, placeIDs[m.ID])
	}
	return users, nil
}

func (r *UserRepoPG) placeIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	var rows []UserPlaceSchema
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		r.log.Error("failed to load place lists", zap.Error(err), zap.Int("users", len(userIDs)))
		return nil, fmt.Errorf("failed to load place lists: %w", err)
	}

	out := make(map[string][]string, len(userIDs))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.PlaceID)
	}
	return out, nil
}

func toUser(m UserSchema, placeIDs []string) *user.User {
	if placeIDs == nil {
		placeIDs = []string{}
	}
	return &user.User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Password: m.Password,
		Image:    m.Image,
		PlaceIDs: placeIDs,
	}
}

// isDuplicateKey detects unique constraint violations from either driver.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
