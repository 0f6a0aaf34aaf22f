package services

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/tovi/database"
	"github.com/akinalp/tovi/pkg/email"
	"github.com/akinalp/tovi/pkg/token"
	"github.com/akinalp/tovi/repository"
)

const testJWTSecret = "test-secret-do-not-use-in-prod"

// testEnv, service testlerinin ortak kurulumu: in-memory SQLite üzerinde
// gerçek repository'ler. Mock yerine gerçek katmanlar kullanılır — testler
// SQL'in ve transaction'ların da doğruluğunu kanıtlar.
type testEnv struct {
	db        *database.DB
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	taskRepo  repository.TaskRepository
	attRepo   repository.AttachmentRepository
	codec     *token.Codec
	auth      AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(":memory:", migrationsFS)
	require.NoError(t, err)
	db.Conn.SetMaxOpenConns(1) // ":memory:" bağlantıya bağlı — pool ikinci boş DB açmasın
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:        db,
		userRepo:  repository.NewSQLiteUserRepo(db.Conn),
		tokenRepo: repository.NewSQLiteTokenRepo(db.Conn),
		taskRepo:  repository.NewSQLiteTaskRepo(db.Conn),
		attRepo:   repository.NewSQLiteAttachmentRepo(db.Conn),
		codec:     token.NewCodec(testJWTSecret, "tovi-test"),
	}

	env.auth = NewAuthService(
		env.userRepo, env.tokenRepo, env.codec, email.NewLogSender(),
		30*time.Minute, 7*24*time.Hour, 24*time.Hour,
	)

	return env
}
