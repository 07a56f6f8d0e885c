package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"transitboard/internal/models"
)

// SessionClaims is the JWT payload carried by the session token. The
// registered ID claim holds the server-side session identifier.
type SessionClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn}
}

// ExpiresIn reports the configured token lifetime.
func (t *TokenService) ExpiresIn() time.Duration {
	return t.expiresIn
}

// Generate issues a signed session token for the given user.
func (t *TokenService) Generate(user *models.User, sessionID string) (string, error) {
	if user == nil || user.ID == 0 {
		return "", errors.New("token: user is required")
	}
	if sessionID == "" {
		return "", errors.New("token: session id is required")
	}

	now := time.Now().UTC()
	claims := SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate verifies signature and expiry and decodes the claims.
func (t *TokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token: invalid claims")
}
