package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-that-is-long-enough")

func TestIssueAndVerifyToken(t *testing.T) {
	t.Parallel()

	token, err := IssueToken(42, testSecret, time.Hour)
	require.NoError(t, err)

	userID, err := VerifyToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyToken_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token, err := IssueTokenAt(7, testSecret, time.Hour, issued)
	require.NoError(t, err)

	userID, err := VerifyTokenAt(token, testSecret, issued.Add(59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	_, err = VerifyTokenAt(token, testSecret, issued.Add(61*time.Minute))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyToken_Failures(t *testing.T) {
	t.Parallel()

	valid, err := IssueToken(1, testSecret, time.Hour)
	require.NoError(t, err)

	expiredAndForeign, err := IssueTokenAt(1, []byte("other-secret"), time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		User: Identity{ID: 1},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]any{"id": 1},
	}).SignedString(testSecret)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name   string
		token  string
		secret []byte
		want   error
	}{
		{"garbage", "not-a-token", testSecret, ErrTokenMalformed},
		{"empty", "", testSecret, ErrTokenMalformed},
		{"bad segments", "a.b.c", testSecret, ErrTokenMalformed},
		{"wrong secret", valid, []byte("wrong-secret"), ErrTokenBadSignature},
		{"tampered signature", tampered, testSecret, ErrTokenBadSignature},
		{"signature checked before expiry", expiredAndForeign, testSecret, ErrTokenBadSignature},
		{"alg none", noneToken, testSecret, ErrTokenBadSignature},
		{"missing user", noUser, testSecret, ErrTokenMalformed},
		{"missing expiry", noExpiry, testSecret, ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := VerifyToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, userID)
		})
	}
}

func TestIssueToken_RequiresUser(t *testing.T) {
	t.Parallel()
	_, err := IssueToken(0, testSecret, time.Hour)
	assert.Error(t, err)
}

func TestReason(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "expired", Reason(ErrTokenExpired))
	assert.Equal(t, "bad_signature", Reason(ErrTokenBadSignature))
	assert.Equal(t, "malformed", Reason(ErrTokenMalformed))
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)

	assert.True(t, VerifyPassword("secret1", digest))
	assert.False(t, VerifyPassword("secret2", digest))
	assert.False(t, VerifyPassword("secret1", "not-a-digest"))

	other, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "digests are salted")
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	c := NewCredentials(string(testSecret), time.Hour, 4)
	token, err := c.IssueToken(3)
	require.NoError(t, err)

	userID, err := c.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), userID)
	assert.Equal(t, testSecret, c.Secret())
}
