package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	domain "github.com/example/task-tracker-demo/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	// Unknown usernames and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInvalidUsername is returned when the username is out of bounds.
	ErrInvalidUsername = errors.New("username must be between 3 and 50 characters")
	// ErrWeakPassword is returned when password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

// UserStore is the storage contract the auth service depends on.
type UserStore interface {
	Create(user *domain.User) error
	FindByUsername(username string) (*domain.User, error)
	UsernameExists(username string) (bool, error)
}

// AuthService handles authentication business logic.
type AuthService struct {
	store  UserStore
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account. The plaintext password is never
// stored, only its bcrypt hash.
func (s *AuthService) Register(_ context.Context, username, password string) (*domain.User, error) {
	// Username bounds count runes; password bounds stay byte-based because
	// bcrypt truncates input at 72 bytes
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return nil, ErrInvalidUsername
	}

	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.store.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a signed access token together
// with its lifetime in seconds.
func (s *AuthService) Login(_ context.Context, username, password string) (string, int64, error) {
	user, err := s.store.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", 0, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.Username)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, int64(s.jwt.TokenDuration().Seconds()), nil
}

// ValidateToken verifies an access token and resolves its subject to a live
// user. A validly signed token whose subject no longer exists is rejected.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindByUsername(claims.Username); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &domain.Claims{
		Username: claims.Username,
	}, nil
}

// GetUser retrieves a user by username.
func (s *AuthService) GetUser(_ context.Context, username string) (*domain.User, error) {
	return s.store.FindByUsername(username)
}
