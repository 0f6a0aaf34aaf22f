// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model, veritabanındaki bir tablonun Go karşılığıdır; aynı zamanda API'den
// gelen/giden verilerin şeklini de belirler. `json:"email"` gibi tag'ler
// struct field'larının JSON'a nasıl serialize edileceğini söyler.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User, bir hesabı temsil eder.
//
// VerificationToken tek kullanımlıktır: doğrulama başarılı olduğunda
// NULL'a çekilir — aynı token ikinci kez kullanılamaz.
// Doğrulanmamış (is_verified=0) hesap login OLAMAZ.
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"` // json:"-" → API response'a DAHİL ETME (güvenlik!)
	IsVerified        bool       `json:"is_verified"`
	VerificationToken *string    `json:"-"` // *string = nullable — doğrulama sonrası NULL
	TokenExpiry       *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// emailRegex, basit email format kontrolü.
// Tam RFC 5322 validasyonu pratikte gereksiz — gerçek doğrulama zaten
// adrese gönderilen link ile yapılır.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupRequest, kayıt olurken client'tan gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate, SignupRequest'in geçerli olup olmadığını kontrol eder.
//
// Kurallar:
//   - Email: boş olamaz, format kontrolü
//   - Password: 8-64 karakter, büyük/küçük harf + rakam + özel karakter
//   - ConfirmPassword: Password ile birebir aynı
func (r *SignupRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}

	if err := ValidatePasswordStrength(r.Password); err != nil {
		return err
	}

	if r.ConfirmPassword != r.Password {
		return fmt.Errorf("passwords do not match")
	}

	return nil
}

// ValidatePasswordStrength, şifre karmaşıklık kurallarını kontrol eder.
// Signup dışında da (ileride şifre değiştirme gibi) kullanılabilsin diye
// bağımsız bir fonksiyon.
func ValidatePasswordStrength(password string) error {
	length := utf8.RuneCountInString(password)
	if length < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if length > 64 {
		return fmt.Errorf("password must be at most 64 characters long")
	}
	// bcrypt girdiyi 72 byte ile sınırlar; multibyte karakterli bir şifre
	// 64 rune'un altında kalıp bu tavanı yine de aşabilir. Burada
	// yakalanmazsa hash'leme aşamasında 500'e dönüşür.
	if len(password) > 72 {
		return fmt.Errorf("password must be at most 72 bytes long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one number")
	case !hasSpecial:
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

// LoginRequest, OAuth2 password flow form alanlarından doldurulur.
// "username" alanı email taşır — OAuth2PasswordRequestForm uyumluluğu için
// alan adı böyle kalır.
type LoginRequest struct {
	Email    string
	Password string
}

// Validate, LoginRequest geçerlilik kontrolü.
// Format kontrolü YAPILMAZ — var olmayan email ile bozuk email aynı
// "invalid email or password" yanıtını almalı (enumeration koruması).
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
