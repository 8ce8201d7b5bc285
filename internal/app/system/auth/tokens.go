package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned by NewTokens when no signing secret is configured.
var ErrEmptySecret = errors.New("jwt secret is empty")

// claims is the JWT payload. The subject is the account's ObjectID hex.
type claims struct {
	Username  string `json:"username,omitempty"`
	DeptShort string `json:"deptShort,omitempty"`
	Role      string `json:"access"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 identity tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token issuer. A zero ttl issues tokens without expiry.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for id.
func (t *Tokens) Issue(id Identity) (string, error) {
	now := t.now()
	rc := jwt.RegisteredClaims{
		Subject:  id.UserID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if t.ttl > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username:         id.Username,
		DeptShort:        id.Department,
		Role:             id.Role,
		RegisteredClaims: rc,
	}).SignedString(t.secret)
}

// Verify parses and validates a token, returning the identity it carries.
func (t *Tokens) Verify(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}
	if c.Subject == "" || c.Role == "" {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}
	return Identity{
		UserID:     c.Subject,
		Username:   c.Username,
		Role:       c.Role,
		Department: c.DeptShort,
	}, nil
}
