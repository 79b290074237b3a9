package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

const taskColumns = `id, user_id, title, description, category, priority, status,
	scheduled_date, scheduled_time, estimated_duration, actual_duration,
	completed_at, productivity_score, notes, created_at, updated_at`

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, description, category, priority, status,
			scheduled_date, scheduled_time, estimated_duration, actual_duration,
			completed_at, productivity_score, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Category,
		task.Priority, task.Status, task.ScheduledDate, task.ScheduledTime,
		task.EstimatedDuration, task.ActualDuration, task.CompletedAt,
		task.ProductivityScore, task.Notes,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, category = $4, priority = $5, status = $6,
			scheduled_date = $7, scheduled_time = $8, estimated_duration = $9,
			actual_duration = $10, completed_at = $11, productivity_score = $12,
			notes = $13, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.Category, task.Priority,
		task.Status, task.ScheduledDate, task.ScheduledTime, task.EstimatedDuration,
		task.ActualDuration, task.CompletedAt, task.ProductivityScore, task.Notes,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	where, args := buildTaskFilter(userID, filter)
	query += where

	sortBy := "scheduled_date"
	switch filter.SortBy {
	case "created_at", "priority", "status", "scheduled_date":
		sortBy = filter.SortBy
	}
	order := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, order)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var tasks []*entities.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM tasks`
	where, args := buildTaskFilter(userID, filter)
	query += where

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return count, nil
}

func (r *TaskRepositoryImpl) ListForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*entities.Task, error) {
	return r.ListForRange(ctx, userID, dayStart, dayEnd)
}

func (r *TaskRepositoryImpl) ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND scheduled_date >= $2 AND scheduled_date <= $3
		ORDER BY scheduled_date ASC`

	var tasks []*entities.Task
	if err := r.db.SelectContext(ctx, &tasks, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("list tasks for range: %w", err)
	}

	return tasks, nil
}

func buildTaskFilter(userID uuid.UUID, filter ports.TaskFilter) (string, []interface{}) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.Priority != nil {
		add("priority = $%d", *filter.Priority)
	}
	if filter.ScheduledFrom != nil {
		add("scheduled_date >= $%d", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		add("scheduled_date <= $%d", *filter.ScheduledTo)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}
