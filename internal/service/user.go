package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/auth"
	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type UserService struct {
	users  domain.UserStore
	logger *zap.Logger
}

func NewUserService(us domain.UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: us, logger: logger}
}

// Register creates an active non-superuser account.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

// Authenticate checks credentials and returns the account. The same error
// covers unknown email and wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

// GetByID resolves an authenticated subject to an active account.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

// EnsureSuperuser creates the bootstrap superuser if the email is not yet
// registered. Called once at startup from configuration.
func (s *UserService) EnsureSuperuser(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &domain.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil
		}
		return err
	}

	s.logger.Info("bootstrap superuser created", zap.String("email", email))
	return nil
}
