package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chronic-care-tracker/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrNotConfigured = errors.New("jwt secret not configured")
)

// Verifier implementa auth.AuthVerifier validando bearer tokens HMAC
// firmados por el servicio de auth. Acá no se emiten tokens: la identidad
// llega ya autenticada y este adapter solo la verifica.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	mc := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return auth.Claims{}, fmt.Errorf("jwt verify failed: %w", err)
	}
	if !parsed.Valid {
		return auth.Claims{}, errors.New("jwt token invalid")
	}

	claims := auth.Claims{
		UserID: stringClaim(mc, "sub", "id"),
		Email:  strings.ToLower(stringClaim(mc, "email")),
	}
	if claims.Email == "" {
		return auth.Claims{}, errors.New("jwt claims missing email")
	}

	return claims, nil
}

func stringClaim(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := mc[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
