// Package auth issues and validates the bearer tokens that identify
// vendors and customers.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account roles encoded in the token's typ claim.
const (
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

var (
	// ErrInvalidToken covers malformed, mis-signed and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given account.
func (t *Tokens) Issue(accountID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub": float64(accountID),
		"typ": role,
		"exp": time.Now().Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates the token and returns the account id and role.
func (t *Tokens) Parse(token string) (uint, string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	role, ok := claims["typ"].(string)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	return uint(sub), role, nil
}
