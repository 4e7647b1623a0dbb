package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("jwtx: token expired")
	ErrTokenInvalid = errors.New("jwtx: token invalid")
)

// Claims is the session token payload. Subject is the identity id; Role and
// Scopes mirror the profile at mint time, so a role change only takes effect
// on the next sign-in.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	Scopes    []string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidateExpiry checks the exp claim against the current time.
func (c Claims) ValidateExpiry() error {
	if time.Now().After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// registeredClaims is the wire representation handed to golang-jwt.
type registeredClaims struct {
	jwt.RegisteredClaims
	Email  string   `json:"email,omitempty"`
	Role   string   `json:"role,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}
