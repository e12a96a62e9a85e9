package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domaintask "github.com/example/task-tracker-demo/domain/task"
	domainuser "github.com/example/task-tracker-demo/domain/user"
	"github.com/example/task-tracker-demo/modules/auth"
	"github.com/example/task-tracker-demo/modules/stats"
	"github.com/example/task-tracker-demo/modules/task"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires the full route tree over real services backed by
// in-memory SQLite databases, bypassing the service container.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	userDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open user database: %v", err)
	}
	if err := userDB.AutoMigrate(&domainuser.User{}); err != nil {
		t.Fatalf("failed to migrate user database: %v", err)
	}

	taskDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open task database: %v", err)
	}
	if err := taskDB.AutoMigrate(&domaintask.Task{}); err != nil {
		t.Fatalf("failed to migrate task database: %v", err)
	}

	authService := auth.NewAuthService(
		auth.NewUserRepository(userDB),
		auth.NewPasswordHasher(),
		auth.NewJWTManager(auth.JWTConfig{
			SecretKey:     "test-secret-key",
			TokenDuration: 30 * time.Minute,
			Issuer:        "test-issuer",
		}),
	)
	taskService := task.NewTaskService(task.NewRepository(taskDB))
	statsService := stats.NewStatsService(taskService)

	handlers := NewHandlers(authService, taskService, statsService)
	return newApp(handlers, authService)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	return resp, raw
}

// registerAndLogin creates a user and returns a valid access token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	credentials := map[string]string{"username": username, "password": "pw123456"}

	resp, body := doJSON(t, app, "POST", "/auth/register", "", credentials)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %v, body = %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, "POST", "/auth/login", "", credentials)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %v, body = %s", resp.StatusCode, body)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	if tokenResp.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}
	if tokenResp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", tokenResp.TokenType)
	}
	if tokenResp.ExpiresIn != 30*60 {
		t.Errorf("expires_in = %d, want %d", tokenResp.ExpiresIn, 30*60)
	}
	return tokenResp.AccessToken
}

func TestPublicEndpoints(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, "GET", "/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %v, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Task Tracker") {
		t.Errorf("welcome body = %s", body)
	}

	resp, body = doJSON(t, app, "GET", "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %v, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "healthy") {
		t.Errorf("health body = %s", body)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       map[string]string{"username": "alice", "password": "pw123456"},
			wantStatus: http.StatusCreated,
			wantBody:   "User created successfully",
		},
		{
			name:       "duplicate username",
			body:       map[string]string{"username": "alice", "password": "pw123456"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "already registered",
		},
		{
			name:       "missing password",
			body:       map[string]string{"username": "bob"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "required",
		},
		{
			name:       "username too short",
			body:       map[string]string{"username": "ab", "password": "pw123456"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "between 3 and 50",
		},
		{
			name:       "password too short",
			body:       map[string]string{"username": "carol", "password": "short"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "at least 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/auth/register", "", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %v, want %v (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body = %s, want to contain %q", body, tt.wantBody)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	app := setupTestApp(t)
	registerAndLogin(t, app, "alice")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{
			name:       "wrong password",
			body:       map[string]string{"username": "alice", "password": "wrong-password"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			body:       map[string]string{"username": "mallory", "password": "pw123456"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/auth/login", "", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.wantStatus)
			}
			// Both failure modes produce the same message
			if !strings.Contains(string(body), "Incorrect username or password") {
				t.Errorf("body = %s", body)
			}
			if got := resp.Header.Get(fiber.HeaderWWWAuthenticate); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q, want Bearer", got)
			}
		})
	}
}

func TestMeEndpoint(t *testing.T) {
	app := setupTestApp(t)
	token := registerAndLogin(t, app, "alice")

	resp, body := doJSON(t, app, "GET", "/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, body = %s", resp.StatusCode, body)
	}

	var me MeResponse
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("username = %q, want alice", me.Username)
	}
	if me.Message != "Token is valid!" {
		t.Errorf("message = %q", me.Message)
	}

	resp, _ = doJSON(t, app, "GET", "/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %v, want 401", resp.StatusCode)
	}
}

func TestTaskEndpoints_RequireAuth(t *testing.T) {
	app := setupTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{"POST", "/tasks/"},
		{"GET", "/tasks/"},
		{"GET", "/tasks/1"},
		{"PUT", "/tasks/1"},
		{"DELETE", "/tasks/1"},
		{"GET", "/tasks/weekly-stats"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			resp, _ := doJSON(t, app, p.method, p.path, "", nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %v, want 401", resp.StatusCode)
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	app := setupTestApp(t)
	token := registerAndLogin(t, app, "alice")

	// Create with defaults
	resp, body := doJSON(t, app, "POST", "/tasks/", token, map[string]string{"title": "Write report"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %v, body = %s", resp.StatusCode, body)
	}

	var created domaintask.Task
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("failed to parse created task: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("id = %d, want 1", created.ID)
	}
	if created.Status != domaintask.StatusPending {
		t.Errorf("status = %q, want Pending", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	// Read back
	resp, body = doJSON(t, app, "GET", "/tasks/1", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %v, body = %s", resp.StatusCode, body)
	}

	// Partial update: status only, title preserved
	status := string(domaintask.StatusCompleted)
	resp, body = doJSON(t, app, "PUT", "/tasks/1", token, map[string]*string{"status": &status})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %v, body = %s", resp.StatusCode, body)
	}

	var updated domaintask.Task
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("failed to parse updated task: %v", err)
	}
	if updated.Status != domaintask.StatusCompleted {
		t.Errorf("status = %q, want Completed", updated.Status)
	}
	if updated.Title != "Write report" {
		t.Errorf("title = %q, want unchanged", updated.Title)
	}

	// List with filter
	resp, body = doJSON(t, app, "GET", "/tasks/?status_filter=Completed", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %v, body = %s", resp.StatusCode, body)
	}
	var listed []domaintask.Task
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("failed to parse task list: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("filtered list length = %d, want 1", len(listed))
	}

	// Delete
	resp, _ = doJSON(t, app, "DELETE", "/tasks/1", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %v, want 204", resp.StatusCode)
	}

	// Gone
	resp, body = doJSON(t, app, "GET", "/tasks/1", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted status = %v, want 404", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Task with ID 1 not found") {
		t.Errorf("body = %s", body)
	}

	// Delete again
	resp, _ = doJSON(t, app, "DELETE", "/tasks/1", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double delete status = %v, want 404", resp.StatusCode)
	}
}

func TestTaskIDsNotReused(t *testing.T) {
	app := setupTestApp(t)
	token := registerAndLogin(t, app, "alice")

	for i := 1; i <= 2; i++ {
		resp, body := doJSON(t, app, "POST", "/tasks/", token, map[string]string{
			"title": fmt.Sprintf("Task %d", i),
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status = %v, body = %s", resp.StatusCode, body)
		}
	}

	resp, _ := doJSON(t, app, "DELETE", "/tasks/2", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %v", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/tasks/", token, map[string]string{"title": "Task 3"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %v, body = %s", resp.StatusCode, body)
	}

	var created domaintask.Task
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("failed to parse created task: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("id = %d, want 3 (deleted ids must not be reused)", created.ID)
	}
}

func TestTaskValidationErrors(t *testing.T) {
	app := setupTestApp(t)
	token := registerAndLogin(t, app, "alice")

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantField  string
	}{
		{
			name:       "empty title",
			method:     "POST",
			path:       "/tasks/",
			body:       map[string]string{"title": ""},
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "title",
		},
		{
			name:       "title too long",
			method:     "POST",
			path:       "/tasks/",
			body:       map[string]string{"title": strings.Repeat("a", 201)},
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "title",
		},
		{
			name:       "unknown status",
			method:     "POST",
			path:       "/tasks/",
			body:       map[string]string{"title": "x", "status": "Archived"},
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "status",
		},
		{
			name:       "bad status filter",
			method:     "GET",
			path:       "/tasks/?status_filter=Done",
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "status_filter",
		},
		{
			name:       "non-numeric id",
			method:     "GET",
			path:       "/tasks/abc",
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "task_id",
		},
		{
			name:       "zero id",
			method:     "DELETE",
			path:       "/tasks/0",
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "task_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, tt.method, tt.path, token, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %v, want %v (body %s)", resp.StatusCode, tt.wantStatus, body)
			}

			var verr ValidationErrorResponse
			if err := json.Unmarshal(body, &verr); err != nil {
				t.Fatalf("failed to parse error response: %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestWeeklyStatsEndpoint(t *testing.T) {
	app := setupTestApp(t)
	token := registerAndLogin(t, app, "alice")

	// No tasks yet
	resp, body := doJSON(t, app, "GET", "/tasks/weekly-stats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, body = %s", resp.StatusCode, body)
	}

	var empty WeeklyStatsResponse
	if err := json.Unmarshal(body, &empty); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if empty.Message != "No tasks found" {
		t.Errorf("message = %q, want %q", empty.Message, "No tasks found")
	}
	if empty.TotalWeeks != 0 {
		t.Errorf("total_weeks = %d, want 0", empty.TotalWeeks)
	}
	if empty.User != "alice" {
		t.Errorf("user = %q, want alice", empty.User)
	}

	// Two tasks this week, one completed
	for _, title := range []string{"First", "Second"} {
		resp, body = doJSON(t, app, "POST", "/tasks/", token, map[string]string{"title": title})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status = %v, body = %s", resp.StatusCode, body)
		}
	}
	status := string(domaintask.StatusCompleted)
	resp, body = doJSON(t, app, "PUT", "/tasks/1", token, map[string]*string{"status": &status})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %v, body = %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, "GET", "/tasks/weekly-stats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, body = %s", resp.StatusCode, body)
	}

	var result WeeklyStatsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.TotalWeeks != 1 {
		t.Fatalf("total_weeks = %d, want 1", result.TotalWeeks)
	}
	week := result.WeeklyStats[0]
	if week.TotalTasks != 2 || week.CompletedTasks != 1 {
		t.Errorf("week = %+v, want 2 total / 1 completed", week)
	}
	if week.CompletionPercentage != 50 {
		t.Errorf("completion_percentage = %v, want 50", week.CompletionPercentage)
	}
}
