package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"taskman/internal/models"
	"taskman/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and the session-token lifecycle.
type AuthService struct {
	userRepo   repositories.UserRepository
	notifier   Notifier
	validate   *validator.Validate
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService. The notifier may be nil, in which
// case lifecycle notifications are skipped.
func NewAuthService(userRepo repositories.UserRepository, notifier Notifier, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		notifier:   notifier,
		validate:   validator.New(),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// normalizeUser applies the canonical form before validation or persistence:
// trimmed name, trimmed lower-cased email, trimmed password.
func normalizeUser(user *models.User) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Password = strings.TrimSpace(user.Password)
}

// checkPassword enforces the plaintext-password policy on top of the struct
// tags: the literal substring "password" is banned regardless of case.
func checkPassword(password string) error {
	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf(`password must not contain "password": %w`, ErrValidation)
	}
	return nil
}

// Register normalizes and validates the user, hashes the password and saves
// the record, then issues the first session token. The plaintext password is
// replaced by its hash before the user is ever handed to the repository.
func (s *AuthService) Register(user *models.User) (string, error) {
	normalizeUser(user)

	if err := s.validate.Struct(user); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if err := checkPassword(user.Password); err != nil {
		return "", err
	}

	// Check first so the common case gets a clean error; the unique index on
	// email still catches a concurrent registration.
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return "", fmt.Errorf("email '%s': %w", user.Email, ErrDuplicateEmail)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", fmt.Errorf("email '%s': %w", user.Email, ErrDuplicateEmail)
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", err
	}

	if s.notifier != nil {
		go func(email, name string) {
			if err := s.notifier.NotifyWelcome(email, name); err != nil {
				log.Printf("Warning: failed to send welcome notification to %s: %v", email, err)
			}
		}(user.Email, user.Name)
	}

	return token, nil
}

// Login authenticates a user by email and password and issues a new session
// token. The error never reveals whether the email exists.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrAuthentication)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrAuthentication)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateToken signs a JWT carrying the user's ID and a 24-hour expiry, and
// appends it to the user's session-token collection before returning it.
// Multiple tokens may coexist, one per signed-in session.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.userRepo.AddToken(user.ID, tokenString); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks the token twice: cryptographic validity (signature and
// expiry) and current membership in the user's token collection. A token
// removed by logout fails here even while its signature is still valid.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", ErrAuthentication)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrAuthentication)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid token claims: %w", ErrAuthentication)
	}

	user, err := s.userRepo.GetByIDAndToken(userID, tokenString)
	if err != nil {
		return nil, fmt.Errorf("token not valid for user: %w", ErrAuthentication)
	}
	return user, nil
}

// Logout revokes a single session token.
func (s *AuthService) Logout(userID, token string) error {
	if err := s.userRepo.RemoveToken(userID, token); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

// LogoutAll revokes every session token held by the user.
func (s *AuthService) LogoutAll(userID string) error {
	if err := s.userRepo.RemoveAllTokens(userID); err != nil {
		return fmt.Errorf("failed to log out of all sessions: %w", err)
	}
	return nil
}
