package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
)

// Tokens issues and verifies HS256 bearer tokens with fixed issuer and audience.
type Tokens struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
}

func NewTokens(secret, issuer, audience string, lifetime time.Duration) *Tokens {
	return &Tokens{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		lifetime: lifetime,
	}
}

// Issue signs a token whose subject is userID.
func (t *Tokens) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   userID,
		Issuer:    t.issuer,
		Audience:  t.audience,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(t.lifetime).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse checks signature, lifetime, issuer and audience. It does not consult the
// revoked set.
func (t *Tokens) Parse(raw string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	if !claims.VerifyIssuer(t.issuer, true) || !claims.VerifyAudience(t.audience, true) {
		return nil, apperr.Unauthorized("invalid token issuer or audience")
	}
	if claims.Subject == "" || claims.ExpiresAt == 0 {
		return nil, apperr.Unauthorized("invalid token claims")
	}
	return claims, nil
}
