package task

import "time"

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	ID uint `json:"id"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTasksRequest is the request for listing tasks. An empty status means
// no filter.
type ListTasksRequest struct {
	Status string `json:"status,omitempty"`
}

// ListTasksResponse is the response containing a list of tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// UpdateTaskRequest is the request for updating a task. Nil fields are left
// untouched.
type UpdateTaskRequest struct {
	ID          uint    `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID uint `json:"id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
	ID      uint `json:"id"`
}
