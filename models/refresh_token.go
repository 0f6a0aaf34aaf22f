package models

import "time"

// RefreshToken, uzun ömürlü opak token'ın DB kaydı.
//
// Neden DB'de?
// Access token kısa ömürlü (30dk) ve stateless — imza yeterli.
// Refresh token uzun ömürlü (7 gün); DB'de tutarak:
//   - Çalınan token iptal edilebilir (is_revoked)
//   - Logout/güvenlik olayında kullanıcının TÜM token'ları tek seferde iptal edilir
//   - Rotasyon: refresh sırasında eski token revoke edilir, replay edilemez
//
// Bir token bir kez revoke edildiğinde bir daha asla geçerli olmaz;
// süresi dolan token revoke edilmemiş olsa bile geçersizdir.
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Token     string     `json:"-"` // API'ye gönderilmez — sadece Set-Cookie ile taşınır
	ExpiresAt time.Time  `json:"expires_at"`
	IsRevoked bool       `json:"is_revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Valid, token'ın şu an kullanılabilir olup olmadığını döner.
// Revoke edilmiş VEYA süresi dolmuş token geçersizdir.
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}

// BlacklistedToken, doğal expiry'sinden önce iptal edilmiş bir access
// token'ın kaydı. Kayıtlı expiry geçene kadar token string'i geçersizdir —
// imza hâlâ doğru olsa bile. Expiry geçtikten sonra satır sweep ile silinir;
// imza kontrolü token'ı zaten reddedeceği için güvenlik değeri kalmaz.
type BlacklistedToken struct {
	ID            string    `json:"id"`
	Token         string    `json:"-"`
	ExpiresAt     time.Time `json:"expires_at"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
}
