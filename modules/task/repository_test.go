package task

import (
	"errors"
	"testing"

	domain "github.com/example/task-tracker-demo/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	var lastID uint
	for i := 0; i < 3; i++ {
		task := &domain.Task{
			Title:  "Task",
			Status: domain.StatusPending,
		}
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if task.ID <= lastID {
			t.Errorf("id %d not greater than previous id %d", task.ID, lastID)
		}
		lastID = task.ID
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := &domain.Task{
		Title:       "FindByID Test",
		Description: "Test description",
		Status:      domain.StatusPending,
	}
	if err := repo.Create(task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}

		if found.ID != task.ID {
			t.Errorf("expected ID %d, got %d", task.ID, found.ID)
		}
		if found.Title != task.Title {
			t.Errorf("expected title %q, got %q", task.Title, found.Title)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindByID(9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty database", func(t *testing.T) {
		tasks, err := repo.FindAll(nil)
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})

	statuses := []domain.Status{
		domain.StatusPending,
		domain.StatusCompleted,
		domain.StatusPending,
	}
	for i, status := range statuses {
		task := &domain.Task{
			Title:  "Task " + string(rune('A'+i)),
			Status: status,
		}
		if err := repo.Create(task); err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	t.Run("all tasks in insertion order", func(t *testing.T) {
		tasks, err := repo.FindAll(nil)
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
		for i := 1; i < len(tasks); i++ {
			if tasks[i].ID <= tasks[i-1].ID {
				t.Errorf("tasks out of insertion order: %d before %d", tasks[i-1].ID, tasks[i].ID)
			}
		}
	})

	t.Run("filtered by status", func(t *testing.T) {
		pending := domain.StatusPending
		tasks, err := repo.FindAll(&pending)
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 pending tasks, got %d", len(tasks))
		}
		for _, task := range tasks {
			if task.Status != domain.StatusPending {
				t.Errorf("expected status Pending, got %s", task.Status)
			}
		}
		// Filtered order matches the unfiltered list restricted to matches
		if tasks[0].ID >= tasks[1].ID {
			t.Errorf("filtered tasks out of insertion order")
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := &domain.Task{
		Title:  "To Be Deleted",
		Status: domain.StatusPending,
	}
	if err := repo.Create(task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("delete existing task", func(t *testing.T) {
		if err := repo.Delete(task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		// Hard delete: the row is gone entirely
		var count int64
		if err := db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count tasks: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 rows after delete, got %d", count)
		}

		if _, err := repo.FindByID(task.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		err := repo.Delete(9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_IDNotReusedAfterDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	first := &domain.Task{Title: "First", Status: domain.StatusPending}
	if err := repo.Create(first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	second := &domain.Task{Title: "Second", Status: domain.StatusPending}
	if err := repo.Create(second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("deleted id %d was reused: new task got id %d", first.ID, second.ID)
	}
}
