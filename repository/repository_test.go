package repository

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/tovi/database"
	"github.com/akinalp/tovi/models"
)

// newTestDB, in-memory SQLite açar ve migration'ları uygular.
//
// SetMaxOpenConns(1) şart: ":memory:" veritabanı bağlantıya bağlıdır,
// pool ikinci bir bağlantı açarsa BOŞ ikinci bir veritabanı görür.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(":memory:", migrationsFS)
	require.NoError(t, err)
	db.Conn.SetMaxOpenConns(1)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser, testler için doğrulanmış bir kullanıcı oluşturur.
func createTestUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()

	repo := NewSQLiteUserRepo(db.Conn)
	user := &models.User{
		Email:        email,
		PasswordHash: "$2a$12$test-hash",
		IsVerified:   true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

// createTestTask, verilen kullanıcıya bir task oluşturur.
func createTestTask(t *testing.T, db *database.DB, userID, title string) *models.Task {
	t.Helper()

	repo := NewSQLiteTaskRepo(db.Conn)
	task := &models.Task{UserID: userID, Title: title}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

// futureTime / pastTime, expiry testlerinde okunabilirlik için.
func futureTime() time.Time { return time.Now().Add(time.Hour) }
func pastTime() time.Time   { return time.Now().Add(-time.Hour) }
