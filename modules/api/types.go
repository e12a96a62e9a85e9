package api

import (
	"github.com/example/task-tracker-demo/modules/stats"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration response.
type RegisterResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents an authentication token response. expires_in is
// the token lifetime in seconds.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are
// left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// WeeklyStatsResponse represents the weekly statistics response.
type WeeklyStatsResponse struct {
	Message     string             `json:"message"`
	TotalWeeks  int                `json:"total_weeks"`
	WeeklyStats []stats.WeeklyStat `json:"weekly_stats"`
	User        string             `json:"user,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse represents a validation error with field detail.
type ValidationErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
