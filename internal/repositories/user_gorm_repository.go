package repositories

import (
	"errors"
	"fmt"
	"strings"

	"taskman/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// isUniqueViolation reports whether err came from a unique constraint.
// Covers the PostgreSQL and SQLite drivers, which word it differently.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByIDAndToken retrieves a user only if the given token is still a member
// of the user's session-token collection. A revoked token therefore fails the
// lookup even when its signature and expiry are still valid.
func (r *GORMUserRepository) GetByIDAndToken(id, token string) (*models.User, error) {
	var st models.SessionToken
	err := r.db.First(&st, "user_id = ? AND token = ?", id, token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("token for user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up session token: %w", err)
	}
	return r.GetByID(id)
}

// Update persists all fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Omit("Tokens").Save(user)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the user and cascades to all owned tasks and session tokens
// in a single transaction, so no orphaned task survives a successful delete.
func (r *GORMUserRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Task{}, "user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tasks for user %s: %w", id, err)
		}
		if err := tx.Delete(&models.SessionToken{}, "user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tokens for user %s: %w", id, err)
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddToken appends a token to the user's session-token collection.
func (r *GORMUserRepository) AddToken(userID, token string) error {
	st := models.SessionToken{
		UserID: userID,
		Token:  token,
	}
	if err := r.db.Create(&st).Error; err != nil {
		return fmt.Errorf("failed to add session token for user %s: %w", userID, err)
	}
	return nil
}

// RemoveToken removes one token from the user's collection, revoking it.
func (r *GORMUserRepository) RemoveToken(userID, token string) error {
	err := r.db.Delete(&models.SessionToken{}, "user_id = ? AND token = ?", userID, token).Error
	if err != nil {
		return fmt.Errorf("failed to remove session token for user %s: %w", userID, err)
	}
	return nil
}

// RemoveAllTokens clears the user's collection, revoking every session.
func (r *GORMUserRepository) RemoveAllTokens(userID string) error {
	if err := r.db.Delete(&models.SessionToken{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to remove session tokens for user %s: %w", userID, err)
	}
	return nil
}

// UpdateAvatar stores (or clears, when avatar is nil) the user's avatar bytes.
func (r *GORMUserRepository) UpdateAvatar(userID string, avatar []byte) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar", avatar)
	if res.Error != nil {
		return fmt.Errorf("failed to update avatar for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for avatar update: %w", userID, ErrNotFound)
	}
	return nil
}
