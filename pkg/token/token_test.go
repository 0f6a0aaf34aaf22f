package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndDecode(t *testing.T) {
	codec := NewCodec("test-secret", "tovi-test")

	signed, err := codec.Issue("user@example.com", 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, expiresAt, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-a", "tovi-test")
	verifier := NewCodec("secret-b", "tovi-test")

	signed, err := issuer.Issue("user@example.com", time.Minute)
	require.NoError(t, err)

	_, _, err = verifier.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsTamperedToken(t *testing.T) {
	codec := NewCodec("test-secret", "tovi-test")

	signed, err := codec.Issue("user@example.com", time.Minute)
	require.NoError(t, err)

	// Payload'ın ortasından bir karakter değiştir — imza artık tutmaz.
	tampered := []byte(signed)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, _, err = codec.Decode(string(tampered))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret", "tovi-test")

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, _, err := codec.Decode(input)
		assert.ErrorIs(t, err, ErrInvalid, "input: %q", input)
	}
}

// Süresi geçmiş token'ın decode EDİLEBİLMESİ sözleşmenin parçasıdır:
// logout blacklist'i expiry bilgisine token süresi geçtikten sonra da
// ihtiyaç duyar. Expiry'yi reddetmek caller'ın işidir.
func TestDecodeReturnsExpiredToken(t *testing.T) {
	codec := NewCodec("test-secret", "tovi-test")

	signed, err := codec.Issue("user@example.com", -time.Minute)
	require.NoError(t, err)

	subject, expiresAt, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
	assert.True(t, expiresAt.Before(time.Now()))
}

func TestIssueDifferentSubjects(t *testing.T) {
	codec := NewCodec("test-secret", "tovi-test")

	a, err := codec.Issue("a@example.com", time.Minute)
	require.NoError(t, err)
	b, err := codec.Issue("b@example.com", time.Minute)
	require.NoError(t, err)

	subjectA, _, err := codec.Decode(a)
	require.NoError(t, err)
	subjectB, _, err := codec.Decode(b)
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", subjectA)
	assert.Equal(t, "b@example.com", subjectB)
}
