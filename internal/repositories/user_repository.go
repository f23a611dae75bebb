package repositories

import "taskman/internal/models"

// UserRepository defines the interface for user data access, including the
// session-token collection that lives with each user.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByIDAndToken returns the user only if the given token is still a
	// member of the user's token collection.
	GetByIDAndToken(id, token string) (*models.User, error)
	Update(user *models.User) error
	// Delete removes the user together with all owned tasks and tokens.
	Delete(id string) error

	AddToken(userID, token string) error
	RemoveToken(userID, token string) error
	RemoveAllTokens(userID string) error

	UpdateAvatar(userID string, avatar []byte) error
}
