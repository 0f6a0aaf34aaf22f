package middleware

import (
	"net/http"
	"strconv"

	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/pkg/ratelimit"
)

// RateLimit, verilen route etiketi için limiter kontrolü yapan middleware
// döner. Route etiketi path'in kendisi DEĞİL mantıksal addır ("auth:signup"
// gibi) — path parametreli route'larda her parametre değeri ayrı bucket
// oluşturmasın diye.
//
// Tavan aşıldığında 429 + Retry-After header döner; iç handler çalışmaz.
func RateLimit(limiter *ratelimit.Limiter, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ratelimit.ExtractIP(r)

			allowed, retryAfter := limiter.Allow(ip, route)
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				pkg.ErrorWithMessage(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
