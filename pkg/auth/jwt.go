package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionService issues and validates the short-lived tokens handed out
// after a successful role passkey validation. Callers carry the token as
// an explicit credential instead of keeping the passkey around.
type SessionService interface {
	IssueToken(role string) (string, error)
	ValidateToken(token string) (string, error)
}

type Config struct {
	Secret      string
	ExpiryHours int
}

type sessionService struct {
	secret []byte
	expiry time.Duration
}

func NewSessionService(cfg Config) SessionService {
	expiry := time.Duration(cfg.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 12 * time.Hour
	}
	return &sessionService{
		secret: []byte(cfg.Secret),
		expiry: expiry,
	}
}

func (s *sessionService) IssueToken(role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the role carried by a valid token.
func (s *sessionService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token claims")
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("session token carries no role")
	}
	return role, nil
}
