// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir. errors.New() ile sabit error
// değişkenleri tanımlarız; karşılaştırma string yerine errors.Is ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Service katmanı bunları fmt.Errorf("%w: detay", ...) ile sarıp döner,
// handler katmanı HTTP status code'larına map'ler (bkz. response.go).
//
// Auth taksonomisi bu sentinel'lere şöyle oturur:
//   - duplicate email, weak password → ErrBadRequest (400)
//   - invalid credentials, unverified, invalid/expired token → ErrUnauthorized (401)
//   - rate limit → ErrTooManyRequests (429)
//   - bcrypt/entropy gibi crypto hataları → sarmalanmadan yukarı çıkar (500)
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)
