package task

import (
	"context"
	"encoding/json"

	domain "github.com/example/task-tracker-demo/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface other modules use to access task storage.
// TaskService satisfies it directly; TaskAdapter satisfies it across the
// service container.
type TaskPort interface {
	Create(ctx context.Context, title, description string, status domain.Status) (*domain.Task, error)
	List(ctx context.Context, status *domain.Status) ([]*domain.Task, error)
	Get(ctx context.Context, id uint) (*domain.Task, error)
	Update(ctx context.Context, id uint, title, description *string, status *domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id uint) error
}

// Compile-time interface checks.
var _ TaskPort = (*TaskService)(nil)
var _ TaskPort = (*TaskAdapter)(nil)

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// Create creates a new task.
func (a *TaskAdapter) Create(ctx context.Context, title, description string, status domain.Status) (*domain.Task, error) {
	req := CreateTaskRequest{
		Title:       title,
		Description: description,
		Status:      string(status),
	}
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "create", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, err
	}

	return toTask(resp), nil
}

// List returns all tasks, optionally filtered by status.
func (a *TaskAdapter) List(ctx context.Context, status *domain.Status) ([]*domain.Task, error) {
	var req ListTasksRequest
	if status != nil {
		req.Status = string(*status)
	}
	var resp ListTasksResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		tasks = append(tasks, toTask(t))
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (a *TaskAdapter) Get(ctx context.Context, id uint) (*domain.Task, error) {
	req := GetTaskRequest{ID: id}
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, err
	}

	return toTask(resp), nil
}

// Update applies a partial update to the task with the given id.
func (a *TaskAdapter) Update(ctx context.Context, id uint, title, description *string, status *domain.Status) (*domain.Task, error) {
	req := UpdateTaskRequest{
		ID:          id,
		Title:       title,
		Description: description,
	}
	if status != nil {
		s := string(*status)
		req.Status = &s
	}
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "update", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, err
	}

	return toTask(resp), nil
}

// Delete removes the task with the given id.
func (a *TaskAdapter) Delete(ctx context.Context, id uint) error {
	req := DeleteTaskRequest{ID: id}
	var resp DeleteTaskResponse

	return helper.CallRequestReplyService(
		ctx, a.container, "delete", json.Marshal, json.Unmarshal, &req, &resp,
	)
}

// toTask converts a TaskResponse back to a Task entity.
func toTask(resp TaskResponse) *domain.Task {
	return &domain.Task{
		ID:          resp.ID,
		Title:       resp.Title,
		Description: resp.Description,
		Status:      domain.Status(resp.Status),
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}
}
