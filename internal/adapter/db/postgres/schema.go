package postgres

import "time"

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	Password  string `gorm:"not null"`
	Image     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// PlaceSchema represents the database schema for the places table.
type PlaceSchema struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Address     string  `gorm:"not null"`
	Lat         float64 `gorm:"not null"`
	Lng         float64 `gorm:"not null"`
	Image       string  `gorm:"not null"`
	CreatorID   string  `gorm:"size:36;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the PlaceSchema model.
func (PlaceSchema) TableName() string {
	return "places"
}

// UserPlaceSchema is one entry of a user's place list.
type UserPlaceSchema struct {
	UserID    string `gorm:"primaryKey;size:36"`
	PlaceID   string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}

// TableName specifies the table name for the UserPlaceSchema model.
func (UserPlaceSchema) TableName() string {
	return "user_places"
}

// Models lists every schema managed by this package, in migration order.
func Models() []any {
	return []any{&UserSchema{}, &PlaceSchema{}, &UserPlaceSchema{}}
}
