// Package auth signs and verifies the HS256 bearer tokens handed to clients.
// Access and refresh tokens share one claims shape and differ only in
// lifetime and the "typ" claim.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "typ" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrEmptySecret is returned by NewSigner when no signing key is configured.
var ErrEmptySecret = errors.New("jwt secret is empty")

// Claims is the claims set of both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Phone string   `json:"phone,omitempty"`
	Roles []string `json:"roles"`
	Type  string   `json:"typ"`
}

// AccountID returns the subject claim.
func (c *Claims) AccountID() string { return c.Subject }

// Signer mints and verifies tokens with a single process-wide HMAC key.
// It holds no mutable state and is safe for concurrent use.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner returns a Signer using secret as the HS256 key.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: secret, now: time.Now}, nil
}

// WithClock returns a copy of s that reads the current time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	c := *s
	c.now = now
	return &c
}

// Sign mints a token of the given type for account, valid for ttl.
func (s *Signer) Sign(account *models.Account, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: account.Email,
		Phone: account.Phone,
		Roles: []string(account.Roles),
		Type:  typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses token and checks signature, algorithm, expiry, subject and
// type. Every failure is reported as common.ErrInvalidToken.
func (s *Signer) Verify(token, typ string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" || claims.Type != typ {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
