package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/infrastructure/logger"
	"github.com/taskpulse/core/internal/ports"
)

const defaultEstimatedDuration = 60

// TaskService handles task CRUD and drives snapshot recomputation
// after every mutation.
type TaskService struct {
	taskRepo ports.TaskRepository
	metrics  *MetricsService
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, metrics *MetricsService, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateTask creates a new task and recomputes the snapshot of its
// scheduled day.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	if req.Title == "" {
		return nil, entities.ErrEmptyTitle
	}
	if !req.Category.IsValid() {
		return nil, entities.ErrInvalidCategory
	}
	if !req.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	estimated := defaultEstimatedDuration
	if req.EstimatedDuration != nil {
		estimated = *req.EstimatedDuration
	}

	task := &entities.Task{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Priority:          req.Priority,
		Status:            entities.TaskStatusPending,
		ScheduledDate:     req.ScheduledDate,
		ScheduledTime:     req.ScheduledTime,
		EstimatedDuration: estimated,
		Notes:             req.Notes,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "user_id", userID, "title", task.Title)

	s.recomputeDay(ctx, userID, task.ScheduledDate)

	return task, nil
}

// GetTask retrieves a task by ID, scoped to its owner.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, entities.ErrTaskNotFound
	}

	return task, nil
}

// UpdateTask applies a typed partial update. Only fields present in
// the request are assigned. The status transition into completed
// stamps CompletedAt once and derives the per-task efficiency score;
// when the scheduled date moves, both the old and the new day are
// recomputed so neither snapshot goes stale.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	previousDay := task.ScheduledDate
	wasCompleted := task.IsCompleted()

	if req.Title != nil {
		if *req.Title == "" {
			return nil, entities.ErrEmptyTitle
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, entities.ErrInvalidCategory
		}
		task.Category = *req.Category
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, entities.ErrInvalidPriority
		}
		task.Priority = *req.Priority
	}
	if req.ScheduledDate != nil {
		task.ScheduledDate = *req.ScheduledDate
	}
	if req.ScheduledTime != nil {
		task.ScheduledTime = *req.ScheduledTime
	}
	if req.EstimatedDuration != nil {
		task.EstimatedDuration = *req.EstimatedDuration
	}
	if req.ActualDuration != nil {
		task.ActualDuration = *req.ActualDuration
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		if *req.Status == entities.TaskStatusCompleted {
			task.Complete(time.Now())
		} else {
			task.Status = *req.Status
		}
	}

	// The efficiency score is derived only on the transition into
	// completed, and only when an actual duration was recorded.
	if !wasCompleted && task.IsCompleted() {
		if score, ok := task.EfficiencyScore(); ok {
			task.ProductivityScore = score
		}
	}

	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "user_id", userID, "status", task.Status)

	s.recomputeDay(ctx, userID, task.ScheduledDate)
	if !entities.SameDay(previousDay, task.ScheduledDate) {
		s.recomputeDay(ctx, userID, previousDay)
	}

	return task, nil
}

// DeleteTask deletes a task and recomputes its day, so the snapshot
// reflects the removal rather than drifting.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", taskID, "user_id", userID)

	s.recomputeDay(ctx, userID, task.ScheduledDate)

	return nil
}

// ListTasks retrieves tasks with filtering and pagination.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, int64, error) {
	tasks, err := s.taskRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	total, err := s.taskRepo.Count(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return tasks, total, nil
}

// recomputeDay triggers the metrics engine for the task's day. The
// mutation is already durable at this point, so a recompute failure is
// logged rather than propagated; the snapshot heals on the next
// trigger for that day.
func (s *TaskService) recomputeDay(ctx context.Context, userID uuid.UUID, day time.Time) {
	if _, err := s.metrics.RecomputeDay(ctx, userID, day); err != nil {
		s.logger.Errorw("Snapshot recomputation failed",
			"user_id", userID,
			"date", entities.DayStart(day).Format("2006-01-02"),
			"error", err,
		)
	}
}
