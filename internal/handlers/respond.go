package handlers

import (
	"encoding/json"
	"errors"

	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/services"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the identity the auth middleware attached to the
// request. Only valid on protected routes.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}

// currentToken returns the raw bearer token of the request's session.
func currentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(middleware.TokenKey).(string)
	return token
}

// parseUpdates decodes a partial-update body and rejects the whole request if
// any submitted key falls outside the allow-list. All-or-nothing: one unknown
// key means no allowed key is applied either.
func parseUpdates(body []byte, allowed []string) (map[string]interface{}, error) {
	var updates map[string]interface{}
	if err := json.Unmarshal(body, &updates); err != nil {
		return nil, errors.New("invalid request body")
	}
	for key := range updates {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			return nil, errors.New("invalid update sent")
		}
	}
	return updates, nil
}

// respondServiceError maps a service error to the response taxonomy. Internal
// detail never reaches the client: anything outside the known kinds becomes a
// generic 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDuplicateEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrAuthentication):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unable to login",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
