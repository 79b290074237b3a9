package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskpulse/core/internal/application/services"
	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/infrastructure/logger"
	"github.com/taskpulse/core/internal/ports"
)

// userIDHeader carries the caller's identity. Authentication itself is
// handled upstream by the gateway; this service only consumes the
// resolved user id.
const userIDHeader = "X-User-ID"

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Create task failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask handles getting a task by ID
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(c.Request().Context(), userID, taskID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask handles partial task updates
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), userID, taskID, req)
	if err != nil {
		h.logger.Errorw("Update task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles task deletion
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		h.logger.Errorw("Delete task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task deleted successfully"})
}

// ListTasks handles listing tasks with filters
func (h *TaskHandler) ListTasks(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	filter := ports.TaskFilter{}

	if status := c.QueryParam("status"); status != "" {
		taskStatus := entities.TaskStatus(status)
		if !taskStatus.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
		}
		filter.Status = &taskStatus
	}
	if category := c.QueryParam("category"); category != "" {
		taskCategory := entities.Category(category)
		if !taskCategory.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid category parameter")
		}
		filter.Category = &taskCategory
	}
	if priority := c.QueryParam("priority"); priority != "" {
		taskPriority := entities.Priority(priority)
		if !taskPriority.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority parameter")
		}
		filter.Priority = &taskPriority
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid from parameter")
		}
		filter.ScheduledFrom = &t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid to parameter")
		}
		end := entities.DayEnd(t)
		filter.ScheduledTo = &end
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		filter.Limit = limit
	} else {
		filter.Limit = 20
	}
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
		filter.Offset = offset
	}
	filter.SortBy = c.QueryParam("sort_by")
	filter.SortOrder = c.QueryParam("sort_order")

	tasks, total, err := h.taskService.ListTasks(c.Request().Context(), userID, filter)
	if err != nil {
		h.logger.Errorw("List tasks failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve tasks")
	}

	response := ports.PaginatedResponse[*entities.Task]{
		Data:   tasks,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	return c.JSON(http.StatusOK, response)
}

// getUserID resolves the caller identity from the request headers.
func getUserID(c echo.Context) (uuid.UUID, error) {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Missing "+userIDHeader+" header")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+userIDHeader+" header")
	}

	return userID, nil
}

// domainError maps domain sentinel errors onto HTTP status codes.
func domainError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound), errors.Is(err, entities.ErrSnapshotNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrEmptyTitle),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrInvalidCategory),
		errors.Is(err, entities.ErrInvalidPriority),
		errors.Is(err, entities.ErrInvalidDateRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
