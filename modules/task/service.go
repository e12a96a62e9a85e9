package task

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	domain "github.com/example/task-tracker-demo/domain/task"
)

var (
	// ErrInvalidTitle is returned when the title is out of bounds.
	ErrInvalidTitle = errors.New("title must be between 1 and 200 characters")
	// ErrInvalidDescription is returned when the description is too long.
	ErrInvalidDescription = errors.New("description must be at most 1000 characters")
	// ErrInvalidStatus is returned when the status is not a known value.
	ErrInvalidStatus = errors.New("status must be Pending or Completed")
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// TaskService handles task business logic: validation, partial-update merge
// semantics and timestamp maintenance.
type TaskService struct {
	repo *Repository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *Repository) *TaskService {
	return &TaskService{repo: repo}
}

// Create validates and persists a new task. An empty status defaults to
// Pending. created_at and updated_at start equal.
func (s *TaskService) Create(_ context.Context, title, description string, status domain.Status) (*domain.Task, error) {
	// Bounds count runes, not bytes
	if n := utf8.RuneCountInString(title); n < 1 || n > maxTitleLen {
		return nil, ErrInvalidTitle
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, ErrInvalidDescription
	}
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	task := &domain.Task{
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	return task, nil
}

// List returns all tasks, or only those matching status when a filter is
// given, in stable insertion order.
func (s *TaskService) List(_ context.Context, status *domain.Status) ([]*domain.Task, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.FindAll(status)
}

// Get returns the task with the given id.
func (s *TaskService) Get(_ context.Context, id uint) (*domain.Task, error) {
	return s.repo.FindByID(id)
}

// Update merges the supplied fields over the existing task. Unsupplied
// fields are left untouched and created_at is immutable. updated_at is
// bumped even when no field actually changed value.
func (s *TaskService) Update(_ context.Context, id uint, title, description *string, status *domain.Status) (*domain.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if n := utf8.RuneCountInString(*title); n < 1 || n > maxTitleLen {
			return nil, ErrInvalidTitle
		}
		task.Title = *title
	}
	if description != nil {
		if utf8.RuneCountInString(*description) > maxDescriptionLen {
			return nil, ErrInvalidDescription
		}
		task.Description = *description
	}
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *status
	}

	task.UpdatedAt = time.Now()
	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes the task with the given id.
func (s *TaskService) Delete(_ context.Context, id uint) error {
	return s.repo.Delete(id)
}
