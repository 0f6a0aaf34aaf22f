package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
)

const (
	testEmail    = "user@example.com"
	testPassword = "Sup3r-Secret"
)

// signupAndVerify, testlerin çoğunun ihtiyacı olan "doğrulanmış hesap"
// durumuna kadar ilerler.
func signupAndVerify(t *testing.T, env *testEnv) *models.User {
	t.Helper()
	ctx := context.Background()

	user, err := env.auth.Signup(ctx, &models.SignupRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)

	stored, err := env.userRepo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)

	verified, err := env.auth.VerifyEmail(ctx, *stored.VerificationToken)
	require.NoError(t, err)
	require.True(t, verified)

	return user
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Signup(ctx, &models.SignupRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, testPassword, user.PasswordHash, "password must be stored hashed")

	stored, err := env.userRepo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	assert.NotEmpty(t, *stored.VerificationToken)
	require.NotNil(t, stored.TokenExpiry)
	assert.True(t, stored.TokenExpiry.After(time.Now()))
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := &models.SignupRequest{Email: testEmail, Password: testPassword, ConfirmPassword: testPassword}
	_, err := env.auth.Signup(ctx, req)
	require.NoError(t, err)

	// Duplicate email 409 değil 400'e düşer — hesap varlığı HTTP status
	// seviyesinde de olabildiğince az belli edilir.
	_, err = env.auth.Signup(ctx, req)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestSignupWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	// İkinci şifre 64 rune'un altında ama bcrypt'in 72 byte girdi tavanını
	// aşıyor — validasyon 400'ü burada üretmeli, hash aşamasında 500 değil.
	passwords := []string{
		"weak",
		"Aa1!" + strings.Repeat("ğ", 60),
	}

	for _, password := range passwords {
		_, err := env.auth.Signup(context.Background(), &models.SignupRequest{
			Email:           testEmail,
			Password:        password,
			ConfirmPassword: password,
		})
		assert.ErrorIs(t, err, pkg.ErrBadRequest, "password: %q", password)
	}
}

func TestVerifyEmailSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, &models.SignupRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)

	stored, err := env.userRepo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)
	verificationToken := *stored.VerificationToken

	verified, err := env.auth.VerifyEmail(ctx, verificationToken)
	require.NoError(t, err)
	assert.True(t, verified)

	// Aynı token ikinci kez işe yaramaz — ve bu bir hata değildir.
	verified, err = env.auth.VerifyEmail(ctx, verificationToken)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	verified, err := env.auth.VerifyEmail(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupAndVerify(t, env)

	pair, err := env.auth.Login(ctx, &models.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	user, err := env.auth.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testEmail, user.Email)
}

// Var olmayan hesap ile yanlış şifre AYNI mesajı döner — yanıttan hesap
// varlığı okunamamalı.
func TestLoginIndistinguishableFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupAndVerify(t, env)

	_, errWrongPassword := env.auth.Login(ctx, &models.LoginRequest{Email: testEmail, Password: "Wr0ng-Pass!"})
	_, errNoUser := env.auth.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "Wr0ng-Pass!"})

	require.ErrorIs(t, errWrongPassword, pkg.ErrUnauthorized)
	require.ErrorIs(t, errNoUser, pkg.ErrUnauthorized)
	assert.Equal(t, errWrongPassword.Error(), errNoUser.Error())
}

func TestLoginUnverified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, &models.SignupRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, &models.LoginRequest{Email: testEmail, Password: testPassword})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupAndVerify(t, env)

	pair, err := env.auth.Login(ctx, &models.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	rotated, err := env.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Eski refresh token tek kullanımlıktır — replay reddedilir.
	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Yenisi çalışır.
	_, err = env.auth.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupAndVerify(t, env)

	pair, err := env.auth.Login(ctx, &models.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	user, err := env.auth.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, pair.AccessToken, user))

	// Access token artık blacklist'te — imzası ve süresi geçerli olsa bile.
	_, err = env.auth.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Refresh token da revoke edildi.
	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestValidateAccessTokenRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupAndVerify(t, env)

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.auth.ValidateAccessToken(ctx, "garbage")
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := env.codec.Issue(testEmail, -time.Minute)
		require.NoError(t, err)

		_, err = env.auth.ValidateAccessToken(ctx, expired)
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})

	t.Run("valid signature but deleted user", func(t *testing.T) {
		ghost, err := env.codec.Issue("ghost@example.com", time.Minute)
		require.NoError(t, err)

		_, err = env.auth.ValidateAccessToken(ctx, ghost)
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})
}
