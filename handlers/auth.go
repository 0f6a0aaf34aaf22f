// Package handlers, HTTP isteklerini karşılayan katmandır.
//
// Handler'lar ince tutulur: request'i parse et, service'i çağır, yanıtı
// yaz. İş mantığı service katmanındadır — handler'da if'ler çoğalmaya
// başladıysa yanlış katmandasın demektir.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/tovi/config"
	"github.com/akinalp/tovi/middleware"
	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/services"
)

// refreshCookieName, refresh token'ı taşıyan cookie'nin adı.
const refreshCookieName = "refresh_token"

// refreshCookiePath: cookie yalnızca refresh endpoint'ine gönderilir —
// diğer tüm isteklerde refresh token hattın üzerinde hiç dolaşmaz.
const refreshCookiePath = "/api/v1/auth/refresh"

// tokenResponse, OAuth2 password flow'un beklediği yanıt şekli.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// messageResponse, veri döndürmeyen endpoint'lerin yanıt gövdesi.
type messageResponse struct {
	Message string `json:"message"`
}

// AuthHandler, kimlik doğrulama endpoint'lerini yönetir.
type AuthHandler struct {
	authService services.AuthService
	cfg         *config.Config
}

// NewAuthHandler, constructor.
func NewAuthHandler(authService services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Signup, POST /api/v1/auth/signup — yeni hesap oluşturur.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, user)
}

// Token, POST /api/v1/auth/token — OAuth2 password flow login.
// Credentials form body'den okunur: username alanı email taşır.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid form body")
		return
	}

	req := models.LoginRequest{
		Email:    r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	pair, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	pkg.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// Verify, POST /api/v1/auth/verify/{token} — email doğrulama.
// Geçersiz/süresi geçmiş token da 200 döner: endpoint'i yoklayarak
// hangi token'ların var olduğu öğrenilemez.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	verificationToken := r.PathValue("token")

	verified, err := h.authService.VerifyEmail(r.Context(), verificationToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	message := "verification link is invalid or has expired"
	if verified {
		message = "email verified successfully"
	}

	pkg.JSON(w, http.StatusOK, messageResponse{Message: message})
}

// Refresh, POST /api/v1/auth/refresh — refresh token rotasyonu.
// Token cookie'den okunur; başarılı rotasyonda yeni token cookie'ye yazılır.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "refresh token missing")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	pkg.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// Logout, POST /api/v1/auth/logout — oturumu sunucu tarafında kapatır.
// Access token blacklist'e alınır, tüm refresh token'lar revoke edilir,
// cookie temizlenir.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	accessToken, ok := middleware.AccessTokenFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.authService.Logout(r.Context(), accessToken, user); err != nil {
		pkg.Error(w, err)
		return
	}

	h.clearRefreshCookie(w)
	pkg.JSON(w, http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// Me, GET /api/v1/users/me — oturum sahibinin hesap bilgisi.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// setRefreshCookie, refresh token'ı HttpOnly cookie olarak yazar.
//
// HttpOnly: JavaScript cookie'yi OKUYAMAZ — XSS ile token çalınamaz.
// Secure: production'da cookie yalnızca HTTPS üzerinden gider.
// SameSite=Strict: cross-site isteklerde cookie gönderilmez (CSRF koruması).
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   h.cfg.JWT.RefreshTokenExpiry * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie, cookie'yi MaxAge=-1 ile siler.
func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
