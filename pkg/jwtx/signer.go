package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed session tokens.
type Signer interface {
	Sign(claims Claims) (string, error)
}

// SignerHS256 signs session tokens with a shared secret. First-party
// sessions only need symmetric signing; the verifier lives in the same
// process.
type SignerHS256 struct {
	Secret []byte
}

func (s *SignerHS256) Sign(claims Claims) (string, error) {
	now := time.Now()
	if claims.IssuedAt.IsZero() {
		claims.IssuedAt = now
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registeredClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    claims.Issuer,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Email:  claims.Email,
		Role:   claims.Role,
		Scopes: claims.Scopes,
	})

	return token.SignedString(s.Secret)
}
