// Package repository — TokenRepository interface tanımı.
//
// Token store iki tabloyu yönetir: refresh_tokens (opak, uzun ömürlü,
// revoke edilebilir) ve blacklisted_tokens (doğal expiry'sinden önce iptal
// edilmiş access token'lar). Service katmanı bu interface'e bağımlıdır.
package repository

import (
	"context"
	"time"

	"github.com/akinalp/tovi/models"
)

// TokenRepository, refresh token ve access token blacklist işlemleri için interface.
type TokenRepository interface {
	// CreateRefreshToken, yeni refresh token satırını kaydeder ve AYNI
	// transaction içinde o kullanıcının süresi dolmuş refresh token'larını
	// siler (fırsat temizliği — full sweep değil, tek kullanıcıyla sınırlı).
	CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error

	// GetRefreshToken, token string'ine göre satırı döner.
	// Bulunamazsa pkg.ErrNotFound. Revoked/expired kontrolü CALLER'dadır —
	// rotasyon, süresi dolmuş satırın da okunmasına ihtiyaç duyar.
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// ValidateRefreshToken, eşleşen + revoke edilmemiş + süresi dolmamış bir
	// satır var mı diye bakar. Revoke edilmiş token kalıcı olarak geçersizdir.
	ValidateRefreshToken(ctx context.Context, token string) (bool, error)

	// RotateRefreshToken, eski token'ı revoke edip yenisini yazar — tek
	// transaction'da. Rotasyon yarıda kalırsa ikisi birden geri alınır;
	// kullanıcı asla "eskisi iptal, yenisi yok" durumunda kalmaz.
	RotateRefreshToken(ctx context.Context, oldID string, t *models.RefreshToken) error

	// RevokeAllForUser, kullanıcının revoke edilmemiş TÜM refresh
	// token'larını timestamp'leyerek revoke eder. Diğer kullanıcıların
	// token'larına dokunmaz. Logout ve güvenlik olayı yanıtıdır.
	RevokeAllForUser(ctx context.Context, userID string) error

	// BlacklistAccessToken, access token'ı kayıtlı expiry'sine kadar
	// geçersiz kılar. Idempotent: aynı token'ı ikinci kez eklemek no-op'tur.
	BlacklistAccessToken(ctx context.Context, tokenString string, expiresAt time.Time) error

	// IsAccessTokenBlacklisted, token blacklist'te ve kayıtlı expiry'si
	// geçmemiş mi diye bakar.
	IsAccessTokenBlacklisted(ctx context.Context, tokenString string) (bool, error)

	// DeleteExpired, süresi geçmiş refresh token ve blacklist satırlarını
	// siler. Periyodik background sweep çağırır, request path'i DEĞİL.
	DeleteExpired(ctx context.Context) error
}
