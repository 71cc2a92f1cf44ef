package auth

import (
	"time"

	"devconnector/internal/config"
)

// Credentials bundles the secret, token lifetime and hash cost.
type Credentials struct {
	secret []byte
	ttl    time.Duration
	cost   int
}

// NewCredentials builds Credentials from explicit values.
func NewCredentials(secret string, ttl time.Duration, cost int) *Credentials {
	return &Credentials{secret: []byte(secret), ttl: ttl, cost: cost}
}

// FromConfig builds Credentials from application config.
func FromConfig(cfg *config.Config) *Credentials {
	return NewCredentials(cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
}

func (c *Credentials) HashPassword(plain string) (string, error) {
	return HashPassword(plain, c.cost)
}

func (c *Credentials) VerifyPassword(plain, digest string) bool {
	return VerifyPassword(plain, digest)
}

func (c *Credentials) IssueToken(userID uint) (string, error) {
	return IssueToken(userID, c.secret, c.ttl)
}

func (c *Credentials) VerifyToken(token string) (uint, error) {
	return VerifyToken(token, c.secret)
}

// Secret returns the signing key.
func (c *Credentials) Secret() []byte {
	return c.secret
}
