package task

import (
	"errors"
	"fmt"

	domain "github.com/example/task-tracker-demo/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = errors.New("task not found")

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database. The id is assigned by the
// database and is strictly increasing across creates.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id uint) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindAll retrieves all tasks in insertion (primary key) order, optionally
// filtered by status.
func (r *Repository) FindAll(status *domain.Status) ([]*domain.Task, error) {
	var tasks []*domain.Task
	query := r.db.Order("id")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Save persists the full state of an existing task, bumping its updated_at.
func (r *Repository) Save(task *domain.Task) error {
	result := r.db.Save(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID (hard delete). Deleted ids are never
// reassigned by the database.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
