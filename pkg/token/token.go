// Package token, stateless access token'ların üretimi ve çözümünden sorumlu
// codec'tir (HS256 JWT).
//
// Bilinçli bir sözleşme ayrımı var: Decode SADECE imza ve yapısal geçerliliği
// kontrol eder, expiry kontrolü YAPMAZ. Expiry kararı caller'ındır — logout
// blacklist'i süresi geçmiş token'ın expiry bilgisine hâlâ ihtiyaç duyar ve
// authorization yapan caller imza geçerliliğinin tek başına yetmediğini bilir
// (bkz. services.AuthService.ValidateAccessToken).
//
// pkg/token hiçbir proje içi pakete bağımlı değildir (leaf dependency) —
// handlers ↔ services arasında import cycle oluşturmadan her yerden kullanılabilir.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid, bozuk yapı, geçersiz imza veya desteklenmeyen algoritma
// durumlarının HEPSİNİ kapsar. Caller'a hangi nedenle reddedildiği
// söylenmez — token neden geçersiz bilgisi bir saldırgana yol gösterir.
var ErrInvalid = errors.New("invalid token")

// Claims, access token payload'ı. Subject kullanıcının email'idir.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec, sunucunun simetrik secret'ı ile token imzalar ve doğrular.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec, constructor.
func NewCodec(secret, issuer string) *Codec {
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue, subject için ttl süreli imzalı bir access token üretir.
// Expiry duvar saatine bağlıdır — aynı girdiyle iki çağrı farklı
// token string'i üretebilir; bu beklenen davranıştır.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// Decode, token'ın imzasını ve yapısını doğrular; subject ile expiry döner.
//
// jwt.WithoutClaimsValidation: kütüphanenin kendi exp kontrolü kapatılır —
// süresi geçmiş ama imzası geçerli token'lar da çözülür. Expiry'yi
// reddetmek CALLER'IN sorumluluğudur.
func (c *Codec) Decode(tokenString string) (subject string, expiresAt time.Time, err error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// alg=none veya RS256 gibi beklenmedik algoritmalarla imzalanmış
		// token'ları reddet — HMAC dışında hiçbir method kabul edilmez.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil || !t.Valid {
		return "", time.Time{}, ErrInvalid
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", time.Time{}, ErrInvalid
	}

	return claims.Subject, claims.ExpiresAt.Time, nil
}
