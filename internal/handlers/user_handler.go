package handlers

import (
	"io"
	"log"
	"regexp"

	"taskman/internal/models"
	"taskman/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// maxAvatarSize is the upload ceiling for avatar files, in bytes.
const maxAvatarSize = 1000000

var avatarExtRegexp = regexp.MustCompile(`\.(jpg|jpeg|png)$`)

// userUpdatableFields is the allow-list for PATCH /users/me.
var userUpdatableFields = []string{"name", "email", "password", "age"}

// UserHandler handles HTTP requests for accounts, sessions and avatars.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes. Registration, login and avatar
// reads are public; everything else goes through the auth middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/users", h.HandleRegister)
	router.Post("/users/login", h.HandleLogin)
	router.Get("/users/:id/avatar", h.HandleGetAvatar)

	router.Post("/users/logout", auth, h.HandleLogout)
	router.Post("/users/logoutAll", auth, h.HandleLogoutAll)
	router.Get("/users/me", auth, h.HandleGetProfile)
	router.Patch("/users/me", auth, h.HandleUpdateProfile)
	router.Delete("/users/me", auth, h.HandleDeleteProfile)
	router.Post("/users/me/avatar", auth, h.HandleUploadAvatar)
	router.Delete("/users/me/avatar", auth, h.HandleDeleteAvatar)
}

// RegisterRequest represents the request body for registration. Only
// presence is checked here; syntax rules run in the service after the fields
// are normalized (trimmed, email lower-cased).
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Age      *int   `json:"age"`
}

// HandleRegister handles new user registration and issues the first session
// token.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}
	token, err := h.authService.Register(user)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues a new session token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unable to login",
		})
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogout revokes the session token used for this request.
func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.authService.Logout(user.ID, currentToken(c)); err != nil {
		log.Printf("Error logging out user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleLogoutAll revokes every session token of the caller.
func (h *UserHandler) HandleLogoutAll(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.authService.LogoutAll(user.ID); err != nil {
		log.Printf("Error logging out all sessions for user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleGetProfile returns the caller's profile. The auth middleware already
// resolved the user, so no extra store round trip is needed.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// HandleUpdateProfile applies a partial update to the caller's profile.
// Requests carrying any field outside the allow-list are rejected wholesale.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	updates, err := parseUpdates(c.Body(), userUpdatableFields)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	user := currentUser(c)
	if err := h.userService.Update(user, updates); err != nil {
		log.Printf("Error updating user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteProfile deletes the caller's account, cascading to all owned
// tasks, and fires a cancellation notification.
func (h *UserHandler) HandleDeleteProfile(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.userService.Delete(user); err != nil {
		log.Printf("Error deleting user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// HandleUploadAvatar accepts a multipart "avatar" image, normalizes it to a
// 250x250 PNG and stores it on the caller's account.
func (h *UserHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An 'avatar' file is required",
		})
	}
	if fileHeader.Size > maxAvatarSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "File too large",
		})
	}
	if !avatarExtRegexp.MatchString(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Please upload images only",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening avatar upload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unable to read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading avatar upload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unable to read uploaded file",
		})
	}

	user := currentUser(c)
	if err := h.userService.SetAvatar(user, data); err != nil {
		log.Printf("Error setting avatar for user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleDeleteAvatar clears the caller's avatar.
func (h *UserHandler) HandleDeleteAvatar(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.userService.DeleteAvatar(user); err != nil {
		log.Printf("Error deleting avatar for user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleGetAvatar serves any user's avatar as PNG. Public route; a missing
// user and a missing avatar both answer 404.
func (h *UserHandler) HandleGetAvatar(c *fiber.Ctx) error {
	avatar, err := h.userService.GetAvatar(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(avatar)
}
