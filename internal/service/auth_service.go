package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"transitboard/internal/models"
	"transitboard/internal/password"
	"transitboard/internal/repository"
)

var (
	// ErrUsernameTaken is returned when registering a duplicate username.
	ErrUsernameTaken = errors.New("auth: username already registered")
	// ErrInvalidCredentials represents login failure. It is deliberately
	// shared by unknown-username and wrong-password outcomes.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService contains registration and login logic.
type AuthService struct {
	repo     UserRepository
	hasher   password.Hasher
	sessions *SessionService
	logger   *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, sessions *SessionService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates a new standard-role account. Registration never produces
// an administrator.
func (s *AuthService) Register(ctx context.Context, username, plain string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("auth: username required")
	}
	if plain == "" {
		return nil, errors.New("auth: password required")
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Role:         models.RoleUser,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a user and establishes a session, returning the
// session token. Unknown username and hash mismatch are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, username, plain string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || plain == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role.String()))
	return token, user, nil
}
