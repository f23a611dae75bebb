package repositories

import (
	"errors"
	"fmt"

	"taskman/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sortableColumns maps caller-facing sort fields to their columns. Anything
// outside this map is never interpolated into an ORDER BY clause.
var sortableColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create creates a new task in the database.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByIDAndOwner retrieves a task by ID, scoped to its owner. A task owned
// by someone else yields ErrNotFound just like a missing one.
func (r *GORMTaskRepository) GetByIDAndOwner(id, ownerID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task by ID %s: %w", id, err)
	}
	return &task, nil
}

// ListByOwner retrieves the owner's tasks, applying the optional completion
// filter, pagination and ordering from opts.
func (r *GORMTaskRepository) ListByOwner(ownerID string, opts ListOptions) ([]models.Task, error) {
	q := r.db.Where("user_id = ?", ownerID)

	if opts.Completed != nil {
		q = q.Where("completed = ?", *opts.Completed)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}
	if col, ok := sortableColumns[opts.SortField]; ok {
		dir := "ASC"
		if opts.SortDesc {
			dir = "DESC"
		}
		q = q.Order(col + " " + dir)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %s: %w", ownerID, err)
	}
	return tasks, nil
}

// Update persists all fields of an existing task.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Save(task)
	if res.Error != nil {
		return fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s not found for update: %w", task.ID, ErrNotFound)
	}
	return nil
}

// DeleteByIDAndOwner deletes one task, scoped to its owner.
func (r *GORMTaskRepository) DeleteByIDAndOwner(id, ownerID string) error {
	res := r.db.Delete(&models.Task{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByOwner deletes every task owned by the given user.
func (r *GORMTaskRepository) DeleteByOwner(ownerID string) error {
	if err := r.db.Delete(&models.Task{}, "user_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete tasks for user %s: %w", ownerID, err)
	}
	return nil
}
