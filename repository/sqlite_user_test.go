package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
)

func TestUserCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteUserRepo(db.Conn)
	ctx := context.Background()

	token := "verify-token-123"
	expiry := time.Now().Add(24 * time.Hour)
	user := &models.User{
		Email:             "user@example.com",
		PasswordHash:      "$2a$12$hash",
		VerificationToken: &token,
		TokenExpiry:       &expiry,
	}

	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.False(t, byID.IsVerified)

	byEmail, err := repo.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteUserRepo(db.Conn)
	ctx := context.Background()

	first := &models.User{Email: "dup@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.User{Email: "dup@example.com", PasswordHash: "h"}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestUserGetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteUserRepo(db.Conn)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "nope@example.com")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserVerificationFlow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteUserRepo(db.Conn)
	ctx := context.Background()

	token := "one-shot-token"
	expiry := time.Now().Add(time.Hour)
	user := &models.User{
		Email:             "verify@example.com",
		PasswordHash:      "h",
		VerificationToken: &token,
		TokenExpiry:       &expiry,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.GetByVerificationToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.MarkVerified(ctx, user.ID))

	// Doğrulama sonrası token NULL'landı — aynı token tekrar bulunmaz.
	_, err = repo.GetByVerificationToken(ctx, token)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	verified, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Nil(t, verified.VerificationToken)
	assert.Nil(t, verified.TokenExpiry)
}

func TestMarkVerifiedMissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteUserRepo(db.Conn)

	err := repo.MarkVerified(context.Background(), "missing-id")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
