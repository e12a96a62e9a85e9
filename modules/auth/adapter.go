package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker-demo/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
// AuthService satisfies it directly; AuthAdapter satisfies it across the
// service container.
type AuthPort interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, int64, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
}

// Compile-time interface checks.
var _ AuthPort = (*AuthService)(nil)
var _ AuthPort = (*AuthAdapter)(nil)

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates a new user account.
func (a *AuthAdapter) Register(ctx context.Context, username, password string) (*domain.User, error) {
	req := RegisterRequest{Username: username, Password: password}
	var resp RegisterResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"register",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &domain.User{
		Username:  resp.Username,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// Login authenticates a user and returns an access token with its lifetime
// in seconds.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (string, int64, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", 0, err
	}

	return resp.AccessToken, resp.ExpiresIn, nil
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}

	return &domain.Claims{
		Username: resp.Username,
	}, nil
}

// GetUser retrieves a user by username.
func (a *AuthAdapter) GetUser(ctx context.Context, username string) (*domain.User, error) {
	req := GetUserRequest{Username: username}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &domain.User{
		Username:  resp.Username,
		CreatedAt: resp.CreatedAt,
	}, nil
}
