// Package ratelimit — (client IP, route) bazlı sliding-window rate limiting.
//
// Tasarım:
//   - Her (IP, route) çifti için son 60 saniyedeki istek timestamp'leri tutulur.
//   - Window içindeki istek sayısı route'un tavanına ulaştıysa istek reddedilir;
//     Retry-After = 60 − (now − window'daki en eski timestamp).
//   - Eski timestamp'ler her kontrol sırasında tembel (lazy) temizlenir —
//     ayrı bir background goroutine YOKTUR, her check kendi bucket'ını kırpar.
//   - İç hata/panic durumunda istek REDDEDİLMEZ (fail open): bu kontrol
//     güvenlik kritik değildir, erişilebilirlik önceliklidir.
//
// Neden in-memory?
// SQLite'a her request'te yazmak gereksiz I/O + contention yaratır.
// Tek instance deploy için in-memory yeterli; state process restart'ta
// kaybolur ve bu kabul edilmiş bir trade-off'tur. Multi-instance deploy
// paylaşımlı bir sayaç gerektirir — kapsam dışı.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// window, sliding window süresi. Tüm limitler "dakikada N istek" olarak
// tanımlandığı için sabittir.
const window = 60 * time.Second

// Limiter, (IP, route) bazlı sliding-window rate limiter.
//
// buckets map'i paylaşılan mutable state'tir — eşzamanlı istekler aynı
// bucket'a dokunabilir. Tek mutex ile serialize edilir: timestamp slice'ı
// hiçbir koşulda bozulmamalı (lost update / partial append olmamalı).
type Limiter struct {
	mu           sync.Mutex
	buckets      map[string][]time.Time
	limits       map[string]int // route → istek/dakika tavanı (override)
	defaultLimit int

	// now, test edilebilirlik için inject edilir — testler deterministik
	// bir saat verir, production'da time.Now kullanılır.
	now func() time.Time
}

// New, yeni bir Limiter oluşturur.
//
// defaultLimit: override'ı olmayan tüm route'lar için dakikalık tavan.
// overrides: route path → özel tavan (ör: signup 5/dk, token 10/dk).
func New(defaultLimit int, overrides map[string]int) *Limiter {
	limits := make(map[string]int, len(overrides))
	for route, limit := range overrides {
		limits[route] = limit
	}

	return &Limiter{
		buckets:      make(map[string][]time.Time),
		limits:       limits,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// Allow, verilen IP'nin verilen route'a şu an istek atmasına izin verilip
// verilmediğini kontrol eder.
//
// allowed=true: istek kabul edildi, timestamp window'a eklendi.
// allowed=false: tavan aşıldı; retryAfter, client'ın beklemesi gereken
// saniye sayısıdır (Retry-After header değeri).
//
// Fail-open garantisi: bookkeeping sırasında bir panic oluşursa istek
// yine de kabul edilir — limiter hatası trafiği durduramaz.
func (l *Limiter) Allow(ip, route string) (allowed bool, retryAfter int) {
	defer func() {
		if r := recover(); r != nil {
			allowed = true
			retryAfter = 0
		}
	}()

	now := l.now()
	cutoff := now.Add(-window)
	key := ip + "|" + route

	l.mu.Lock()
	defer l.mu.Unlock()

	// Lazy pruning: window dışında kalan timestamp'leri at.
	// Slice baştan sonra sıralı (append-only) olduğu için ilk window-içi
	// elemanı bulmak yeterli.
	times := l.buckets[key]
	start := 0
	for start < len(times) && !times[start].After(cutoff) {
		start++
	}
	times = times[start:]

	limit := l.defaultLimit
	if override, ok := l.limits[route]; ok {
		limit = override
	}

	if len(times) >= limit {
		l.buckets[key] = times
		// En eski istek window'dan çıkana kadar beklenecek süre
		retry := window - now.Sub(times[0])
		seconds := int(retry.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		return false, seconds
	}

	l.buckets[key] = append(times, now)
	return true, 0
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik sırası:
//  1. X-Forwarded-For header (reverse proxy arkasındaysa, ilk IP)
//  2. X-Real-IP header (nginx gibi proxy'ler ekler)
//  3. RemoteAddr (doğrudan bağlantı)
//
// Production'da uygulama genellikle nginx/Caddy arkasındadır — RemoteAddr
// o durumda her zaman proxy'nin IP'sidir, gerçek client IP header'dadır.
func ExtractIP(r *http.Request) string {
	// X-Forwarded-For: client, proxy1, proxy2 — ilk değer gerçek client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
