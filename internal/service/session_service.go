package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"go.uber.org/zap"

	"transitboard/internal/models"
	"transitboard/internal/redisstore"
)

// ErrUnauthenticated is returned when a token cannot be resolved to a live
// session, for any reason.
var ErrUnauthenticated = errors.New("session: unauthenticated")

// SessionStore is the server-side session persistence contract.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, record redisstore.SessionRecord) error
	Get(ctx context.Context, sessionID string) (*redisstore.SessionRecord, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionService issues, resolves and revokes session identities. The token
// is a signed claim set; the store holds the revocable server-side half.
type SessionService struct {
	tokens *TokenService
	store  SessionStore
	logger *zap.Logger
}

// NewSessionService builds SessionService.
func NewSessionService(tokens *TokenService, store SessionStore, logger *zap.Logger) *SessionService {
	return &SessionService{tokens: tokens, store: store, logger: logger}
}

// Issue establishes a new session identity bound to the user and returns the
// session token to hand to the client.
func (s *SessionService) Issue(ctx context.Context, user *models.User) (string, error) {
	sessionID, err := newSessionID()
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(user, sessionID)
	if err != nil {
		return "", err
	}

	record := redisstore.SessionRecord{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
	if err := s.store.Save(ctx, sessionID, record); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve maps a session token to an identity. A verified token whose
// session record is gone (expired or revoked) is unauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if _, err := s.store.Get(ctx, claims.ID); err != nil {
		if errors.Is(err, redisstore.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		s.logger.Warn("session token carries unknown role", zap.String("role", claims.Role))
		return nil, ErrUnauthenticated
	}

	return &models.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      role,
		SessionID: claims.ID,
	}, nil
}

// Revoke destroys the session behind the token. It succeeds unconditionally:
// revoking an invalid or already-dead token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, claims.ID)
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
