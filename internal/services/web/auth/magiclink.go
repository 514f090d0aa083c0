package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type magicClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

const magicIssuer = "gettogether-web"

// issueMagicToken signs a short-lived login token for an email address.
func (s *Service) issueMagicToken(email string, now time.Time) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if len(s.magicSecret) == 0 {
		return "", fmt.Errorf("magic link secret is not configured")
	}
	claims := magicClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    magicIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.MagicTTL)),
			ID:        s.newID(),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.magicSecret)
	if err != nil {
		return "", fmt.Errorf("sign magic token: %w", err)
	}
	return signed, nil
}

// verifyMagicToken validates a login token and returns its email claim.
func (s *Service) verifyMagicToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("token is required")
	}
	if len(s.magicSecret) == 0 {
		return "", fmt.Errorf("magic link secret is not configured")
	}
	claims := &magicClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.magicSecret, nil
	}, jwt.WithIssuer(magicIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse magic token: %w", err)
	}
	if !parsed.Valid {
		return "", fmt.Errorf("magic token is not valid")
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return "", fmt.Errorf("magic token has no email claim")
	}
	return email, nil
}
