package service

import (
	"context"
	"errors"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth/domain"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/password"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
)

// UserStore is the slice of the credential store the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, email *string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ValidationError carries the first failing field's message (400 at the
// handler boundary).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateInput mirrors the registration/login input rules: the first
// failing rule wins.
func ValidateInput(username, pass string) error {
	if len(username) < 3 {
		return &ValidationError{Message: "Username must be at least 3 characters"}
	}
	if len(pass) < 6 {
		return &ValidationError{Message: "Password must be at least 6 characters"}
	}
	return nil
}

type AuthService struct {
	users  UserStore
	issuer *token.Issuer
}

func NewAuthService(users UserStore, issuer *token.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Register validates input, hashes the password and creates the user,
// returning a freshly issued session token.
func (s *AuthService) Register(ctx context.Context, username, pass string, email *string) (*domain.User, string, error) {
	if err := ValidateInput(username, pass); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, username, hash, email)
	if err != nil {
		return nil, "", err
	}

	t, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, t, nil
}

// Login checks credentials and mints a session token. Unknown username
// and wrong password collapse to the same error.
func (s *AuthService) Login(ctx context.Context, username, pass string) (*domain.User, string, error) {
	if err := ValidateInput(username, pass); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	t, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, t, nil
}

// Validate verifies the session token and loads its user.
func (s *AuthService) Validate(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, err := s.issuer.Verify(tokenString)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}
