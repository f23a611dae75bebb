package handlers

import (
	"log"
	"strconv"
	"strings"

	"taskman/internal/repositories"
	"taskman/internal/services"

	"github.com/gofiber/fiber/v2"
)

// taskUpdatableFields is the allow-list for PATCH /tasks/:id.
var taskUpdatableFields = []string{"description", "completed"}

// TaskHandler handles HTTP requests for tasks. All routes require
// authentication and every operation is scoped to the caller's ownership.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// RegisterRoutes registers the task routes behind the auth middleware.
func (h *TaskHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/tasks", auth, h.HandleCreateTask)
	router.Get("/tasks", auth, h.HandleListTasks)
	router.Get("/tasks/:id", auth, h.HandleGetTask)
	router.Patch("/tasks/:id", auth, h.HandleUpdateTask)
	router.Delete("/tasks/:id", auth, h.HandleDeleteTask)
}

// CreateTaskRequest represents the request body for task creation.
type CreateTaskRequest struct {
	Description string `json:"description"`
}

// HandleCreateTask creates a task owned by the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create task request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	task, err := h.taskService.Create(currentUser(c).ID, req.Description)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// parseListOptions builds ListOptions from the request query. Parsing is
// deliberately lenient: unparseable limit/skip values are ignored rather than
// rejected, and an unknown sort field leaves ordering unspecified.
func parseListOptions(c *fiber.Ctx) repositories.ListOptions {
	var opts repositories.ListOptions

	if completed := c.Query("completed"); completed != "" {
		b := completed == "true"
		opts.Completed = &b
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = limit
	}
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil {
		opts.Skip = skip
	}
	if sortBy := c.Query("sortBy"); sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		opts.SortField = parts[0]
		opts.SortDesc = len(parts) == 2 && parts[1] == "desc"
	}
	return opts
}

// HandleListTasks lists the caller's tasks.
// Supports: ?completed=true|false, ?limit=N, ?skip=N, ?sortBy=field:direction.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	tasks, err := h.taskService.List(currentUser(c).ID, parseListOptions(c))
	if err != nil {
		log.Printf("Error listing tasks: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(tasks)
}

// HandleGetTask returns one of the caller's tasks by ID.
func (h *TaskHandler) HandleGetTask(c *fiber.Ctx) error {
	task, err := h.taskService.Get(currentUser(c).ID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(task)
}

// HandleUpdateTask applies a partial update to one of the caller's tasks.
// Requests carrying any field outside the allow-list are rejected wholesale.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	updates, err := parseUpdates(c.Body(), taskUpdatableFields)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	task, err := h.taskService.Update(currentUser(c).ID, c.Params("id"), updates)
	if err != nil {
		log.Printf("Error updating task %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(task)
}

// HandleDeleteTask deletes one of the caller's tasks.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	if err := h.taskService.Delete(currentUser(c).ID, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
