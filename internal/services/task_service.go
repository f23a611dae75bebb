package services

import (
	"errors"
	"fmt"
	"strings"

	"taskman/internal/models"
	"taskman/internal/repositories"

	"github.com/google/uuid"
)

// TaskService handles business logic for tasks. Every operation is scoped to
// the calling user; a task owned by someone else behaves like a missing one.
type TaskService struct {
	taskRepo repositories.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repositories.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// Create creates a task owned by the given user.
func (s *TaskService) Create(ownerID, description string) (*models.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required: %w", ErrValidation)
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		Description: description,
		Completed:   false,
		UserID:      ownerID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks according to opts.
func (s *TaskService) List(ownerID string, opts repositories.ListOptions) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ownerID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Get returns one of the owner's tasks by ID.
func (s *TaskService) Get(ownerID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.GetByIDAndOwner(taskID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update applies a partial update to one of the owner's tasks. The handler
// has already checked the allow-list, so updates only ever contains
// description or completed.
func (s *TaskService) Update(ownerID, taskID string, updates map[string]interface{}) (*models.Task, error) {
	task, err := s.Get(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	for key, value := range updates {
		switch key {
		case "description":
			str, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("description must be a string: %w", ErrValidation)
			}
			str = strings.TrimSpace(str)
			if str == "" {
				return nil, fmt.Errorf("description is required: %w", ErrValidation)
			}
			task.Description = str
		case "completed":
			b, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("completed must be a boolean: %w", ErrValidation)
			}
			task.Completed = b
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete removes one of the owner's tasks.
func (s *TaskService) Delete(ownerID, taskID string) error {
	if err := s.taskRepo.DeleteByIDAndOwner(taskID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
