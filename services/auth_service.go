// Package services, uygulamanın iş mantığı (business logic) katmanıdır.
//
// Handler'lar HTTP detaylarıyla, repository'ler SQL ile ilgilenir;
// aradaki tüm kurallar — şifre hash'leme, token üretimi, doğrulama
// akışı, task limiti — burada yaşar. Her service bir interface ve
// onun implementasyonundan oluşur; handler'lar interface'e bağımlıdır.
package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/pkg/email"
	"github.com/akinalp/tovi/pkg/token"
	"github.com/akinalp/tovi/repository"
)

// bcryptCost: varsayılan 10'dan yüksek, interaktif login için hâlâ kabul
// edilebilir gecikmede. Cost artırımı hash'i kıran değil üreten tarafı
// yavaşlatır — mevcut hash'ler eski cost'larıyla doğrulanmaya devam eder.
const bcryptCost = 12

// dummyHash, var olmayan kullanıcı için de bcrypt karşılaştırması
// koşulsun diye kullanılır — "kullanıcı yok" ile "şifre yanlış" yanıt
// süreleri birbirine yaklaşır.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// TokenPair, başarılı login/refresh sonucunda dönen token ikilisi.
// AccessToken response body'de, RefreshToken HttpOnly cookie'de taşınır.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService, kimlik doğrulama iş mantığı için interface.
type AuthService interface {
	// Signup, yeni hesap oluşturur ve doğrulama emaili gönderir.
	// Hesap is_verified=0 başlar; doğrulanana kadar login edemez.
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)

	// VerifyEmail, doğrulama token'ı ile hesabı aktive eder.
	// Token bulunamadı/süresi geçti → (false, nil): hata DEĞİL —
	// handler her iki durumda da aynı yanıtı döner.
	VerifyEmail(ctx context.Context, verificationToken string) (bool, error)

	// Login, email+şifre doğrulayıp access+refresh token üretir.
	Login(ctx context.Context, req *models.LoginRequest) (*TokenPair, error)

	// Refresh, geçerli bir refresh token'ı tek kullanımlık rotasyonla
	// yeni bir çifte çevirir. Eski token kalıcı olarak revoke edilir.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout, access token'ı blacklist'e alır ve kullanıcının tüm
	// refresh token'larını revoke eder.
	Logout(ctx context.Context, accessToken string, user *models.User) error

	// ValidateAccessToken, bearer token'dan kullanıcıyı çözer.
	// İmza + expiry + blacklist + kullanıcı varlığı — dördü birden
	// geçmeden kullanıcı dönmez. Tüm ret nedenleri ErrUnauthorized'a
	// indirgenir.
	ValidateAccessToken(ctx context.Context, tokenString string) (*models.User, error)
}

// authService, AuthService implementasyonu.
type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	codec     *token.Codec
	sender    email.EmailSender

	accessTTL       time.Duration
	refreshTTL      time.Duration
	verificationTTL time.Duration
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	codec *token.Codec,
	sender email.EmailSender,
	accessTTL, refreshTTL, verificationTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		codec:           codec,
		sender:          sender,
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		verificationTTL: verificationTTL,
	}
}

func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		// bcrypt hatası (ör: 72 byte üstü şifre) crypto seviyesinde bir
		// sorundur — 400'e indirgemeden yukarı çıkar.
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.verificationTTL)
	user := &models.User{
		Email:             req.Email,
		PasswordHash:      string(hash),
		IsVerified:        false,
		VerificationToken: &verificationToken,
		TokenExpiry:       &expiry,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", pkg.ErrBadRequest)
		}
		return nil, err
	}

	// Email gönderimi signup'ı BLOKLAMAZ: sağlayıcı yavaşsa ya da
	// hata verirse hesap yine de oluşur, kullanıcı yeniden deneyebilir.
	go func(toEmail, tok string) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.sender.SendVerification(sendCtx, toEmail, tok); err != nil {
			log.Printf("[auth] failed to send verification email to=%s: %v", toEmail, err)
		}
	}(user.Email, verificationToken)

	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, verificationToken string) (bool, error) {
	user, err := s.userRepo.GetByVerificationToken(ctx, verificationToken)
	if errors.Is(err, pkg.ErrNotFound) {
		// Bilinmeyen token ile daha önce kullanılmış token ayırt edilmez.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if user.TokenExpiry == nil || time.Now().After(*user.TokenExpiry) {
		return false, nil
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return false, err
	}

	return true, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, pkg.ErrNotFound) {
		// Kullanıcı yokken de bcrypt koştur — yanıt süresi var/yok
		// bilgisini sızdırmasın. Sonuç ne olursa olsun reddedilir.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Password))
		return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}

	// Doğrulanmamış hesap ancak DOĞRU şifreyle bu mesajı görür —
	// yanlış şifre yukarıda genel mesajla reddedildi, hesap varlığı
	// şifreyi bilmeyene açıklanmaz.
	if !user.IsVerified {
		return nil, fmt.Errorf("%w: email not verified", pkg.ErrUnauthorized)
	}

	return s.issueTokens(ctx, user, "")
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rt, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if !rt.Valid(time.Now()) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", pkg.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, rt.UserID)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, rt.ID)
}

func (s *authService) Logout(ctx context.Context, accessToken string, user *models.User) error {
	// Token middleware'den geçti, decode burada tekrar başarılı olmalı —
	// expiry bilgisi blacklist satırının ömrünü belirler.
	_, expiresAt, err := s.codec.Decode(accessToken)
	if err != nil {
		return fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	if err := s.tokenRepo.BlacklistAccessToken(ctx, accessToken, expiresAt); err != nil {
		return err
	}

	return s.tokenRepo.RevokeAllForUser(ctx, user.ID)
}

func (s *authService) ValidateAccessToken(ctx context.Context, tokenString string) (*models.User, error) {
	subject, expiresAt, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	if time.Now().After(expiresAt) {
		return nil, fmt.Errorf("%w: token expired", pkg.ErrUnauthorized)
	}

	blacklisted, err := s.tokenRepo.IsAccessTokenBlacklisted(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, fmt.Errorf("%w: token revoked", pkg.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByEmail(ctx, subject)
	if errors.Is(err, pkg.ErrNotFound) {
		// İmza geçerli ama kullanıcı silinmiş — token artık kimseyi
		// temsil etmiyor.
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// issueTokens, access+refresh çiftini üretir. oldTokenID boşsa yeni kayıt
// (login), doluysa rotasyon (refresh) yapılır.
func (s *authService) issueTokens(ctx context.Context, user *models.User, oldTokenID string) (*TokenPair, error) {
	accessToken, err := s.codec.Issue(user.Email, s.accessTTL)
	if err != nil {
		return nil, err
	}

	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}

	if oldTokenID == "" {
		err = s.tokenRepo.CreateRefreshToken(ctx, rt)
	} else {
		err = s.tokenRepo.RotateRefreshToken(ctx, oldTokenID, rt)
	}
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
	}, nil
}

// generateVerificationToken, 32 byte'lık kriptografik random token üretir
// (base64 URL-safe, padding'siz — link'e gömülmeye uygun).
func generateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
