// Package auth implements the access gate: a stateless shared-secret check
// guarding every engine operation, plus short-lived bearer tokens signed with
// that secret so browser clients don't have to hold it across a session.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/camden-git/cullsysbackend/models"
)

const (
	tokenIssuer   = "cullsysbackend"
	tokenLifetime = 24 * time.Hour
)

// SecretSource supplies the configured shared secret; the config registry
// satisfies it.
type SecretSource interface {
	AuthSecret() string
}

type Gate struct {
	secrets SecretSource
}

func NewGate(secrets SecretSource) *Gate {
	return &Gate{secrets: secrets}
}

// VerifySecret compares a caller-supplied secret against the configured one
// in constant time. An empty configured secret fails closed.
func (g *Gate) VerifySecret(secret string) error {
	configured := g.secrets.AuthSecret()
	if configured == "" {
		return fmt.Errorf("no auth secret configured: %w", models.ErrUnauthorized)
	}

	// hash both sides so the comparison is constant-time regardless of length
	want := sha256.Sum256([]byte(configured))
	got := sha256.Sum256([]byte(secret))
	if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
		return models.ErrUnauthorized
	}
	return nil
}

// IssueToken exchanges a valid secret for a signed HS256 bearer token.
func (g *Gate) IssueToken(secret string) (string, time.Time, error) {
	if err := g.VerifySecret(secret); err != nil {
		return "", time.Time{}, err
	}

	expiresAt := time.Now().Add(tokenLifetime)
	claims := &jwt.RegisteredClaims{
		Subject:   "curator",
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(g.secrets.AuthSecret()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken validates a bearer token previously issued by IssueToken.
func (g *Gate) VerifyToken(tokenString string) error {
	configured := g.secrets.AuthSecret()
	if configured == "" {
		return fmt.Errorf("no auth secret configured: %w", models.ErrUnauthorized)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configured), nil
	})
	if err != nil {
		return fmt.Errorf("%v: %w", err, models.ErrUnauthorized)
	}
	if !token.Valid {
		return models.ErrUnauthorized
	}
	return nil
}
