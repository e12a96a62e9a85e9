package task

import (
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	// StatusPending marks a task that has not been completed yet.
	StatusPending Status = "Pending"
	// StatusCompleted marks a finished task.
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a tracked task.
//
// IDs come from SQLite AUTOINCREMENT, so they are strictly increasing and
// never reused after a delete. Deletes are hard deletes.
type Task struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000" json:"description"`
	Status      Status    `gorm:"size:20;not null;default:Pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
