package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a raw token string and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

type VerifierHS256 struct {
	Secret []byte
	Issuer string
}

func (v *VerifierHS256) Verify(raw string) (Claims, error) {
	var rc registeredClaims

	token, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.Secret, nil
	}, jwt.WithIssuer(v.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	claims := Claims{
		Subject: rc.Subject,
		Email:   rc.Email,
		Role:    rc.Role,
		Scopes:  rc.Scopes,
		Issuer:  rc.Issuer,
	}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, nil
}
