package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequestValidate(t *testing.T) {
	valid := func() SignupRequest {
		return SignupRequest{
			Email:           "user@example.com",
			Password:        "Sup3r-Secret",
			ConfirmPassword: "Sup3r-Secret",
		}
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("trims email whitespace", func(t *testing.T) {
		req := valid()
		req.Email = "  user@example.com  "
		require.NoError(t, req.Validate())
		assert.Equal(t, "user@example.com", req.Email)
	})

	t.Run("empty email", func(t *testing.T) {
		req := valid()
		req.Email = ""
		assert.Error(t, req.Validate())
	})

	t.Run("malformed email", func(t *testing.T) {
		for _, email := range []string{"no-at-sign", "no-domain@", "@no-local.com", "sp ace@x.com"} {
			req := valid()
			req.Email = email
			assert.Error(t, req.Validate(), "email: %q", email)
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := valid()
		req.ConfirmPassword = "Sup3r-Different"
		assert.Error(t, req.Validate())
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3r-Secret", false},
		{"minimum length", "Aa1!aaaa", false},
		{"too short", "Aa1!aaa", true},
		{"too long", "Aa1!" + strings.Repeat("a", 61), true},
		{"multibyte within byte budget", "Aa1!" + strings.Repeat("ğ", 30), false},
		{"multibyte over 72 bytes", "Aa1!" + strings.Repeat("ğ", 60), true},
		{"no uppercase", "sup3r-secret", true},
		{"no lowercase", "SUP3R-SECRET", true},
		{"no digit", "Super-Secret", true},
		{"no special", "Sup3rSecret1", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := LoginRequest{Email: "user@example.com", Password: "whatever"}
		assert.NoError(t, req.Validate())
	})

	// Format kontrolü bilinçli olarak YOK: bozuk email de aşağı katmana
	// iner ve orada "invalid email or password" ile reddedilir.
	t.Run("malformed email passes", func(t *testing.T) {
		req := LoginRequest{Email: "not-an-email", Password: "whatever"}
		assert.NoError(t, req.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
		assert.Error(t, (&LoginRequest{Email: "user@example.com"}).Validate())
	})
}
