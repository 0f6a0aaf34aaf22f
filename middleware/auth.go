// Package middleware, HTTP handler'larını saran ara katmanları içerir.
//
// Middleware pattern: her middleware bir http.Handler alır ve onu saran
// yeni bir http.Handler döner. İstek önce middleware'den geçer; koşullar
// sağlanmazsa iç handler'a hiç ulaşmaz.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/services"
)

// contextKey, context value çakışmalarını önlemek için özel tip.
// string yerine özel tip kullanmak başka paketlerin aynı key'i (kazara)
// ezmesini imkânsız kılar.
type contextKey string

const (
	userContextKey        contextKey = "user"
	accessTokenContextKey contextKey = "accessToken"
)

// Auth, bearer token'ı doğrulayıp kullanıcıyı request context'ine koyan
// middleware döner. Token yoksa veya geçersizse istek 401 ile kesilir,
// iç handler hiç çalışmaz.
//
// Kullanıcıyla birlikte ham token string'i de context'e konur — logout
// handler'ı blacklist için token'ın kendisine ihtiyaç duyar.
func Auth(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			user, err := authService.ValidateAccessToken(r.Context(), tokenString)
			if err != nil {
				pkg.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, accessTokenContextKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken, Authorization header'ından token'ı çıkarır.
// Format: "Bearer <token>" — scheme kontrolü case-insensitive yapılır.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", false
	}

	return tokenString, true
}

// UserFromContext, Auth middleware'inin context'e koyduğu kullanıcıyı döner.
// Auth middleware'inden geçmemiş bir handler'da çağrılırsa ok=false döner.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// AccessTokenFromContext, istekle gelen ham access token string'ini döner.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	tokenString, ok := ctx.Value(accessTokenContextKey).(string)
	return tokenString, ok
}
