package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"places-service/internal/domain/user"
)

func newTestUser(email string) *user.User {
	return &user.User{
		ID:       uuid.NewString(),
		Name:     "Max",
		Email:    email,
		Password: "$2a$12$hash",
		Image:    "uploads/images/avatar.png",
	}
}

func TestUserRepoPG_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	u := newTestUser("max@test.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Password, got.Password)
	assert.Empty(t, got.PlaceIDs)

	byEmail, err := repo.GetByEmail(ctx, "max@test.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepoPG_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("dup@test.com")))

	err := repo.Create(ctx, newTestUser("dup@test.com"))
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUserRepoPG_Create_Nil(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	assert.Error(t, repo.Create(context.Background(), nil))
}

func TestUserRepoPG_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	got, err := repo.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByEmail(ctx, "nobody@test.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepoPG_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	owners := NewUserPlacesPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	a := newTestUser("a@test.com")
	b := newTestUser("b@test.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	placeID := uuid.NewString()
	require.NoError(t, owners.AddPlace(ctx, b.ID, placeID))

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := map[string]user.User{}
	for _, u := range users {
		byID[u.ID] = u
	}
	assert.Empty(t, byID[a.ID].PlaceIDs)
	assert.Equal(t, []string{placeID}, byID[b.ID].PlaceIDs)
}
