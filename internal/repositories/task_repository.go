package repositories

import "taskman/internal/models"

// ListOptions controls filtering, pagination and ordering of a task listing.
// A nil Completed means no completion filter; non-positive Limit/Skip mean
// no limit/offset is applied; an empty SortField leaves ordering unspecified.
type ListOptions struct {
	Completed *bool
	Limit     int
	Skip      int
	SortField string
	SortDesc  bool
}

// TaskRepository defines the interface for task data access. Every read and
// mutation is scoped to the owning user.
type TaskRepository interface {
	Create(task *models.Task) error
	GetByIDAndOwner(id, ownerID string) (*models.Task, error)
	ListByOwner(ownerID string, opts ListOptions) ([]models.Task, error)
	Update(task *models.Task) error
	DeleteByIDAndOwner(id, ownerID string) error
	DeleteByOwner(ownerID string) error
}
