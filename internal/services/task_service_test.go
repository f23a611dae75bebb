package services_test

import (
	"errors"
	"testing"

	"taskman/internal/models"
	"taskman/internal/repositories"
	"taskman/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository is a mock implementation of repositories.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(task *models.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByIDAndOwner(id, ownerID string) (*models.Task, error) {
	args := m.Called(id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByOwner(ownerID string, opts repositories.ListOptions) ([]models.Task, error) {
	args := m.Called(ownerID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(task *models.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteByIDAndOwner(id, ownerID string) error {
	args := m.Called(id, ownerID)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteByOwner(ownerID string) error {
	args := m.Called(ownerID)
	return args.Error(0)
}

func TestTaskService_Create(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*models.Task")).Return(nil).Once()

	task, err := taskService.Create("user-123", "  Buy milk  ")
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Description)
	assert.Equal(t, "user-123", task.UserID)
	assert.False(t, task.Completed)
	mockRepo.AssertExpectations(t)

	// Blank descriptions never reach the repository.
	_, err = taskService.Create("user-123", "   ")
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestTaskService_Get_OwnershipScoped(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo)

	task := &models.Task{ID: "task-1", Description: "Buy milk", UserID: "owner"}

	mockRepo.On("GetByIDAndOwner", "task-1", "owner").Return(task, nil).Once()
	got, err := taskService.Get("owner", "task-1")
	assert.NoError(t, err)
	assert.Equal(t, task, got)

	// The repository answers not-found both for a missing task and a task
	// owned by someone else; the service must not tell the two apart.
	mockRepo.On("GetByIDAndOwner", "task-1", "intruder").Return(nil, repositories.ErrNotFound).Once()
	_, foreignErr := taskService.Get("intruder", "task-1")
	assert.True(t, errors.Is(foreignErr, services.ErrNotFound))

	mockRepo.On("GetByIDAndOwner", "missing", "owner").Return(nil, repositories.ErrNotFound).Once()
	_, missingErr := taskService.Get("owner", "missing")
	assert.True(t, errors.Is(missingErr, services.ErrNotFound))

	mockRepo.AssertExpectations(t)
}

func TestTaskService_List(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo)

	completed := true
	opts := repositories.ListOptions{
		Completed: &completed,
		Limit:     2,
		Skip:      1,
		SortField: "createdAt",
		SortDesc:  true,
	}
	expected := []models.Task{
		{ID: "task-2", Description: "B", Completed: true, UserID: "owner"},
		{ID: "task-1", Description: "A", Completed: true, UserID: "owner"},
	}

	mockRepo.On("ListByOwner", "owner", opts).Return(expected, nil).Once()
	tasks, err := taskService.List("owner", opts)
	assert.NoError(t, err)
	assert.Equal(t, expected, tasks)

	// An empty result is an empty slice, not nil, so it serializes as [].
	mockRepo.On("ListByOwner", "owner", repositories.ListOptions{}).Return(nil, nil).Once()
	tasks, err = taskService.List("owner", repositories.ListOptions{})
	assert.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Len(t, tasks, 0)

	mockRepo.AssertExpectations(t)
}

func TestTaskService_Update(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo)

	task := &models.Task{ID: "task-1", Description: "Buy milk", UserID: "owner"}

	mockRepo.On("GetByIDAndOwner", "task-1", "owner").Return(task, nil).Once()
	mockRepo.On("Update", task).Return(nil).Once()

	updated, err := taskService.Update("owner", "task-1", map[string]interface{}{
		"description": "Buy oat milk",
		"completed":   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Description)
	assert.True(t, updated.Completed)
	mockRepo.AssertExpectations(t)

	// Wrong types are rejected before anything is persisted.
	mockRepo.On("GetByIDAndOwner", "task-1", "owner").Return(task, nil).Twice()
	_, err = taskService.Update("owner", "task-1", map[string]interface{}{"completed": "yes"})
	assert.True(t, errors.Is(err, services.ErrValidation))
	_, err = taskService.Update("owner", "task-1", map[string]interface{}{"description": "  "})
	assert.True(t, errors.Is(err, services.ErrValidation))

	// A foreign task cannot be updated.
	mockRepo.On("GetByIDAndOwner", "task-1", "intruder").Return(nil, repositories.ErrNotFound).Once()
	_, err = taskService.Update("intruder", "task-1", map[string]interface{}{"completed": true})
	assert.True(t, errors.Is(err, services.ErrNotFound))

	mockRepo.AssertExpectations(t)
}

func TestTaskService_Delete(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo)

	mockRepo.On("DeleteByIDAndOwner", "task-1", "owner").Return(nil).Once()
	assert.NoError(t, taskService.Delete("owner", "task-1"))

	mockRepo.On("DeleteByIDAndOwner", "task-1", "intruder").Return(repositories.ErrNotFound).Once()
	err := taskService.Delete("intruder", "task-1")
	assert.True(t, errors.Is(err, services.ErrNotFound))

	mockRepo.AssertExpectations(t)
}
