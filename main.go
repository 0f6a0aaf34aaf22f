// tovi — todo list API servisi.
//
// main.go uygulamanın giriş noktasıdır: tüm bağımlılıklar burada, elle
// wire edilir (constructor injection). DI framework'ü YOK — bağımlılık
// grafiği gözle okunabilir kalır: config → database → repository →
// service → handler → router.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/tovi/config"
	"github.com/akinalp/tovi/database"
	"github.com/akinalp/tovi/handlers"
	"github.com/akinalp/tovi/middleware"
	"github.com/akinalp/tovi/pkg/email"
	"github.com/akinalp/tovi/pkg/ratelimit"
	"github.com/akinalp/tovi/pkg/token"
	"github.com/akinalp/tovi/repository"
	"github.com/akinalp/tovi/services"
)

// sweepInterval, süresi geçmiş token satırlarının temizlenme periyodu.
const sweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	// Repository katmanı
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	tokenRepo := repository.NewSQLiteTokenRepo(db.Conn)
	taskRepo := repository.NewSQLiteTaskRepo(db.Conn)
	attachmentRepo := repository.NewSQLiteAttachmentRepo(db.Conn)

	// Email: API key yoksa gönderim log'a düşer — development'ta doğrulama
	// token'ı log'dan alınıp elle verify edilebilir.
	var sender email.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
	} else {
		log.Println("[main] RESEND_API_KEY not set, verification emails will be logged")
		sender = email.NewLogSender()
	}

	// Service katmanı
	codec := token.NewCodec(cfg.JWT.Secret, "tovi")
	authService := services.NewAuthService(
		userRepo, tokenRepo, codec, sender,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*24*time.Hour,
		time.Duration(cfg.Email.VerificationHours)*time.Hour,
	)
	taskService := services.NewTaskService(taskRepo, attachmentRepo)
	uploadService, err := services.NewUploadService(taskRepo, attachmentRepo, cfg.Upload.Dir, cfg.Upload.MaxSize)
	if err != nil {
		log.Fatalf("[main] failed to init upload service: %v", err)
	}

	// Handler katmanı
	authHandler := handlers.NewAuthHandler(authService, cfg)
	taskHandler := handlers.NewTaskHandler(taskService, uploadService, cfg.Upload.MaxSize)

	// Rate limiter: signup ve token brute-force hedefidir, varsayılandan
	// sıkı limitlenir. Route etiketleri path değil mantıksal ad taşır.
	limiter := ratelimit.New(cfg.RateLimit.PerMinute, map[string]int{
		"auth:signup": cfg.RateLimit.SignupPerMinute,
		"auth:token":  cfg.RateLimit.TokenPerMinute,
	})

	mux := buildRouter(authHandler, taskHandler, authService, limiter)

	// CORS: browser client'ları için. Credentials=true çünkü refresh
	// token cookie ile taşınır.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Email.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Background sweep: süresi geçmiş refresh token ve blacklist satırları
	// saatte bir silinir. Request path'i sweep'e hiç dokunmaz.
	sweepStop := make(chan struct{})
	go runTokenSweep(tokenRepo, sweepStop)

	go func() {
		log.Printf("[main] server listening on %s (env=%s)", cfg.Server.Addr(), cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	// Graceful shutdown: SIGINT/SIGTERM gelince yeni istek kabulü durur,
	// uçuştaki isteklere 10 saniye tanınır.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[main] shutting down...")
	close(sweepStop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped")
}

// buildRouter, tüm endpoint'leri method-aware pattern'lerle kaydeder.
//
// Middleware zinciri route bazında kurulur: public route'lar yalnızca
// rate limit, korumalı route'lar rate limit + auth'tan geçer.
func buildRouter(
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	authService services.AuthService,
	limiter *ratelimit.Limiter,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.Auth(authService)
	rl := func(route string) func(http.Handler) http.Handler {
		return middleware.RateLimit(limiter, route)
	}

	// Public auth endpoint'leri
	mux.Handle("POST /api/v1/auth/signup", rl("auth:signup")(http.HandlerFunc(authHandler.Signup)))
	mux.Handle("POST /api/v1/auth/token", rl("auth:token")(http.HandlerFunc(authHandler.Token)))
	mux.Handle("POST /api/v1/auth/verify/{token}", rl("auth:verify")(http.HandlerFunc(authHandler.Verify)))
	mux.Handle("POST /api/v1/auth/refresh", rl("auth:refresh")(http.HandlerFunc(authHandler.Refresh)))

	// Korumalı auth endpoint'leri
	mux.Handle("POST /api/v1/auth/logout", rl("auth:logout")(auth(http.HandlerFunc(authHandler.Logout))))
	mux.Handle("GET /api/v1/users/me", rl("users:me")(auth(http.HandlerFunc(authHandler.Me))))

	// Task endpoint'leri (hepsi korumalı)
	mux.Handle("POST /api/v1/tasks", rl("tasks")(auth(http.HandlerFunc(taskHandler.Create))))
	mux.Handle("GET /api/v1/tasks", rl("tasks")(auth(http.HandlerFunc(taskHandler.List))))
	mux.Handle("GET /api/v1/tasks/{id}", rl("tasks")(auth(http.HandlerFunc(taskHandler.Get))))
	mux.Handle("PUT /api/v1/tasks/{id}", rl("tasks")(auth(http.HandlerFunc(taskHandler.Update))))
	mux.Handle("DELETE /api/v1/tasks/{id}", rl("tasks")(auth(http.HandlerFunc(taskHandler.Delete))))

	// Attachment endpoint'leri
	mux.Handle("POST /api/v1/tasks/{id}/attachments",
		rl("attachments")(auth(http.HandlerFunc(taskHandler.Upload))))
	mux.Handle("GET /api/v1/tasks/{id}/attachments/{attachmentID}",
		rl("attachments")(auth(http.HandlerFunc(taskHandler.Download))))
	mux.Handle("DELETE /api/v1/tasks/{id}/attachments/{attachmentID}",
		rl("attachments")(auth(http.HandlerFunc(taskHandler.DeleteAttachment))))

	// Health check — rate limit'e ve auth'a takılmaz
	mux.HandleFunc("GET /api/health", handlers.Health)

	return mux
}

// runTokenSweep, stop channel'ı kapanana kadar periyodik temizlik yapar.
func runTokenSweep(tokenRepo repository.TokenRepository, stop <-chan struct{}) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := tokenRepo.DeleteExpired(ctx); err != nil {
				log.Printf("[sweep] failed to delete expired tokens: %v", err)
			}
			cancel()
		case <-stop:
			return
		}
	}
}
