// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment değerleri — cookie Secure flag'i gibi davranışları etkiler.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Email       EmailConfig
	Upload      UploadConfig
	RateLimit   RateLimitConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/tovi.db)
}

// JWTConfig, access/refresh token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 30)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// EmailConfig, doğrulama emaili gönderimi ayarları.
//
// ResendAPIKey boş bırakılırsa email gönderimi devre dışı kalır —
// development ortamında doğrulama token'ı log'a yazılır (bkz. main.go wire-up).
type EmailConfig struct {
	ResendAPIKey      string
	FromEmail         string // Resend'de doğrulanmış domain altında olmalı
	AppURL            string // Doğrulama linklerinde kullanılan public URL
	VerificationHours int    // Doğrulama token ömrü, saat (varsayılan: 24)
}

// UploadConfig, task attachment yükleme ayarları.
type UploadConfig struct {
	Dir     string // Dosyaların kaydedileceği dizin
	MaxSize int64  // Byte cinsinden max dosya boyutu (varsayılan: 10MB)
}

// RateLimitConfig, route bazlı rate limit tavanları (istek/dakika).
// Signup ve Token endpoint'leri brute-force hedefi olduğu için
// varsayılandan daha sıkı limitlenir.
type RateLimitConfig struct {
	PerMinute       int // Diğer tüm route'lar için varsayılan
	SignupPerMinute int
	TokenPerMinute  int
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	verificationHours, err := strconv.Atoi(getEnv("VERIFICATION_TOKEN_EXPIRY_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_TOKEN_EXPIRY_HOURS: %w", err)
	}

	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE", "10485760"), 10, 64) // 10MB
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	rateDefault, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	rateSignup, err := strconv.Atoi(getEnv("RATE_LIMIT_SIGNUP_PER_MINUTE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SIGNUP_PER_MINUTE: %w", err)
	}

	rateToken, err := strconv.Atoi(getEnv("RATE_LIMIT_TOKEN_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TOKEN_PER_MINUTE: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", EnvDevelopment),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/tovi.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Email: EmailConfig{
			ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
			FromEmail:         getEnv("EMAIL_FROM", "noreply@tovi.app"),
			AppURL:            getEnv("APP_URL", fmt.Sprintf("http://localhost:%d", port)),
			VerificationHours: verificationHours,
		},
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxSize: maxSize,
		},
		RateLimit: RateLimitConfig{
			PerMinute:       rateDefault,
			SignupPerMinute: rateSignup,
			TokenPerMinute:  rateToken,
		},
	}

	return cfg, nil
}

// IsProduction, Secure cookie gibi production-only davranışlar için kullanılır.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:8000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
