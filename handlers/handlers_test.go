package handlers

import (
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/tovi/config"
	"github.com/akinalp/tovi/database"
	"github.com/akinalp/tovi/middleware"
	"github.com/akinalp/tovi/pkg/email"
	"github.com/akinalp/tovi/pkg/token"
	"github.com/akinalp/tovi/repository"
	"github.com/akinalp/tovi/services"
)

// testServer, handler testleri için gerçek stack: in-memory SQLite,
// gerçek service'ler, method-aware ServeMux. Rate limit middleware'i
// bilinçli olarak dışarıda — kendi testinde ayrıca denenir.
type testServer struct {
	mux       *http.ServeMux
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(":memory:", migrationsFS)
	require.NoError(t, err)
	db.Conn.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Environment: config.EnvDevelopment,
		JWT: config.JWTConfig{
			Secret:             "handler-test-secret",
			AccessTokenExpiry:  30,
			RefreshTokenExpiry: 7,
		},
		Upload: config.UploadConfig{
			Dir:     t.TempDir(),
			MaxSize: 1 << 20,
		},
	}

	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	tokenRepo := repository.NewSQLiteTokenRepo(db.Conn)
	taskRepo := repository.NewSQLiteTaskRepo(db.Conn)
	attachmentRepo := repository.NewSQLiteAttachmentRepo(db.Conn)

	codec := token.NewCodec(cfg.JWT.Secret, "tovi-test")
	authService := services.NewAuthService(
		userRepo, tokenRepo, codec, email.NewLogSender(),
		30*time.Minute, 7*24*time.Hour, 24*time.Hour,
	)
	taskService := services.NewTaskService(taskRepo, attachmentRepo)
	uploadService, err := services.NewUploadService(taskRepo, attachmentRepo, cfg.Upload.Dir, cfg.Upload.MaxSize)
	require.NoError(t, err)

	authHandler := NewAuthHandler(authService, cfg)
	taskHandler := NewTaskHandler(taskService, uploadService, cfg.Upload.MaxSize)
	auth := middleware.Auth(authService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/auth/token", authHandler.Token)
	mux.HandleFunc("POST /api/v1/auth/verify/{token}", authHandler.Verify)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /api/v1/auth/logout", auth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/v1/users/me", auth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/v1/tasks", auth(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("GET /api/v1/tasks", auth(http.HandlerFunc(taskHandler.List)))
	mux.Handle("GET /api/v1/tasks/{id}", auth(http.HandlerFunc(taskHandler.Get)))
	mux.Handle("PUT /api/v1/tasks/{id}", auth(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("DELETE /api/v1/tasks/{id}", auth(http.HandlerFunc(taskHandler.Delete)))
	mux.Handle("POST /api/v1/tasks/{id}/attachments", auth(http.HandlerFunc(taskHandler.Upload)))
	mux.Handle("GET /api/v1/tasks/{id}/attachments/{attachmentID}", auth(http.HandlerFunc(taskHandler.Download)))
	mux.Handle("DELETE /api/v1/tasks/{id}/attachments/{attachmentID}", auth(http.HandlerFunc(taskHandler.DeleteAttachment)))
	mux.HandleFunc("GET /api/health", Health)

	return &testServer{mux: mux, userRepo: userRepo, tokenRepo: tokenRepo}
}

// envelope, APIResponse'un test tarafındaki karşılığı.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do, isteği mux'tan geçirir ve envelope'u çözer.
func (s *testServer) do(t *testing.T, r *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, r)

	var env envelope
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// signupAndVerify, hesabı HTTP üzerinden oluşturup DB'deki token ile doğrular.
func (s *testServer) signupAndVerify(t *testing.T, userEmail, password string) {
	t.Helper()

	w, _ := s.do(t, jsonRequest(t, "POST", "/api/v1/auth/signup", map[string]string{
		"email":            userEmail,
		"password":         password,
		"confirm_password": password,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := s.userRepo.GetByEmail(t.Context(), userEmail)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)

	w, _ = s.do(t, httptest.NewRequest("POST", "/api/v1/auth/verify/"+*stored.VerificationToken, nil))
	require.Equal(t, http.StatusOK, w.Code)
}

// login, form body ile token endpoint'ini çağırır; access token ve refresh
// cookie döner.
func (s *testServer) login(t *testing.T, userEmail, password string) (string, *http.Cookie) {
	t.Helper()

	form := "username=" + userEmail + "&password=" + password
	r := httptest.NewRequest("POST", "/api/v1/auth/token", strings.NewReader(form))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, env := s.do(t, r)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)

	var refreshCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie, "login must set the refresh cookie")

	return data.AccessToken, refreshCookie
}
