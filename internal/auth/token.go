// Package auth issues and verifies credentials: bcrypt password digests and
// HS256 session tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim on every token.
const Issuer = "devconnector"

// Token verification failures.
var (
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenBadSignature = errors.New("token signature is invalid")
)

// Identity is the user part of the token payload.
type Identity struct {
	ID uint `json:"id"`
}

// Claims is the token payload: {user: {id}} plus the registered claims.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for userID that expires after ttl.
func IssueToken(userID uint, secret []byte, ttl time.Duration) (string, error) {
	return IssueTokenAt(userID, secret, ttl, time.Now())
}

// IssueTokenAt signs a token as if issued at now.
func IssueTokenAt(userID uint, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if userID == 0 {
		return "", errors.New("cannot issue a token without a user id")
	}
	claims := Claims{
		User: Identity{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature first, then expiry, and returns the user id.
func VerifyToken(tokenString string, secret []byte) (uint, error) {
	return VerifyTokenAt(tokenString, secret, time.Now())
}

// VerifyTokenAt verifies as if the current time were now.
func VerifyTokenAt(tokenString string, secret []byte, now time.Time) (uint, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return 0, classify(err)
	}
	if claims.User.ID == 0 {
		return 0, ErrTokenMalformed
	}
	return claims.User.ID, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// Reason is a short label for a verification error, used in metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
