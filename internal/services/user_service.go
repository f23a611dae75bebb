package services

import (
	"errors"
	"fmt"
	"log"

	"taskman/internal/models"
	"taskman/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile mutation, account deletion and avatars.
type UserService struct {
	userRepo   repositories.UserRepository
	notifier   Notifier
	normalizer Normalizer
	validate   *validator.Validate
}

// NewUserService creates a new UserService. The notifier may be nil.
func NewUserService(userRepo repositories.UserRepository, notifier Notifier, normalizer Normalizer) *UserService {
	return &UserService{
		userRepo:   userRepo,
		notifier:   notifier,
		normalizer: normalizer,
		validate:   validator.New(),
	}
}

// Update applies a partial profile update. The handler has already checked
// the allow-list, so updates only ever contains name, email, password or age.
// The password is re-hashed only when it is among the updated keys.
func (s *UserService) Update(user *models.User, updates map[string]interface{}) error {
	passwordChanged := false

	for key, value := range updates {
		switch key {
		case "name":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("name must be a string: %w", ErrValidation)
			}
			user.Name = str
		case "email":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("email must be a string: %w", ErrValidation)
			}
			user.Email = str
		case "password":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("password must be a string: %w", ErrValidation)
			}
			user.Password = str
			passwordChanged = true
		case "age":
			if value == nil {
				user.Age = nil
				continue
			}
			// JSON numbers decode to float64.
			num, ok := value.(float64)
			if !ok {
				return fmt.Errorf("age must be a number: %w", ErrValidation)
			}
			age := int(num)
			user.Age = &age
		}
	}

	normalizeUser(user)
	if passwordChanged {
		// Validate the plaintext before it is replaced by its hash.
		if err := s.validate.Struct(user); err != nil {
			return fmt.Errorf("%v: %w", err, ErrValidation)
		}
		if err := checkPassword(user.Password); err != nil {
			return err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	} else {
		if err := s.validate.Struct(user); err != nil {
			return fmt.Errorf("%v: %w", err, ErrValidation)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("email '%s': %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the user's account. The repository cascades to tasks and
// session tokens; once the delete succeeds a cancellation notification is
// dispatched without blocking the caller.
func (s *UserService) Delete(user *models.User) error {
	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.notifier != nil {
		go func(email, name string) {
			if err := s.notifier.NotifyCancellation(email, name); err != nil {
				log.Printf("Warning: failed to send cancellation notification to %s: %v", email, err)
			}
		}(user.Email, user.Name)
	}
	return nil
}

// SetAvatar normalizes the uploaded bytes to the stored PNG form and saves
// them. Bytes the normalizer cannot decode are a validation failure.
func (s *UserService) SetAvatar(user *models.User, data []byte) error {
	normalized, err := s.normalizer.Normalize(data)
	if err != nil {
		return fmt.Errorf("unable to process image: %w", ErrValidation)
	}
	if err := s.userRepo.UpdateAvatar(user.ID, normalized); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	user.Avatar = normalized
	return nil
}

// DeleteAvatar clears the user's avatar.
func (s *UserService) DeleteAvatar(user *models.User) error {
	if err := s.userRepo.UpdateAvatar(user.ID, nil); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	user.Avatar = nil
	return nil
}

// GetAvatar returns the stored avatar PNG for any user. An unknown user and a
// user without an avatar are both ErrNotFound.
func (s *UserService) GetAvatar(userID string) ([]byte, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("avatar for user %s: %w", userID, ErrNotFound)
	}
	if len(user.Avatar) == 0 {
		return nil, fmt.Errorf("avatar for user %s: %w", userID, ErrNotFound)
	}
	return user.Avatar, nil
}
