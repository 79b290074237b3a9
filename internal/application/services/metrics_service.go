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

// MetricsService is the daily snapshot recomputation engine. It is the
// only writer of derived snapshot fields; readers treat snapshots as
// read-only.
type MetricsService struct {
	taskRepo     ports.TaskRepository
	snapshotRepo ports.SnapshotRepository
	logger       *logger.Logger
}

// NewMetricsService creates a new metrics service
func NewMetricsService(taskRepo ports.TaskRepository, snapshotRepo ports.SnapshotRepository, logger *logger.Logger) *MetricsService {
	return &MetricsService{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

// RecomputeDay rebuilds the snapshot for the calendar day the given
// timestamp falls within, from the current task state of that day, and
// upserts it in a single atomic write. Recomputing with unchanged
// tasks yields an identical snapshot. Concurrent recomputations for
// the same day are last-writer-wins; the atomic upsert guarantees a
// single snapshot row regardless.
func (s *MetricsService) RecomputeDay(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error) {
	dayStart := entities.DayStart(day)
	dayEnd := entities.DayEnd(day)

	tasks, err := s.taskRepo.ListForDay(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("recompute day: %w", err)
	}

	snapshot := entities.NewDailySnapshot(userID, dayStart)
	snapshot.ComputeFromTasks(tasks)

	if err := s.snapshotRepo.UpsertDerived(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("recompute day: %w", err)
	}

	s.logger.Debugw("Daily snapshot recomputed",
		"user_id", userID,
		"date", dayStart.Format("2006-01-02"),
		"tasks_planned", snapshot.TasksPlanned,
		"tasks_completed", snapshot.TasksCompleted,
		"productivity_score", snapshot.ProductivityScore,
	)

	return snapshot, nil
}

// GetDaily returns the persisted snapshot for the day, or a
// zero-valued snapshot when none exists yet. The synthesized snapshot
// is not persisted, so "today" queries work before any task exists.
func (s *MetricsService) GetDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error) {
	snapshot, err := s.snapshotRepo.GetByDay(ctx, userID, entities.DayStart(day))
	if err != nil {
		if err == entities.ErrSnapshotNotFound {
			return entities.NewDailySnapshot(userID, day), nil
		}
		return nil, fmt.Errorf("get daily snapshot: %w", err)
	}

	return snapshot, nil
}

// UpdateDailyMetrics edits the manually tracked fields (focus time and
// breaks) of the day's snapshot. These fields are independent of task
// state and survive recomputation untouched.
func (s *MetricsService) UpdateDailyMetrics(ctx context.Context, userID uuid.UUID, day time.Time, req ports.UpdateDailyMetricsRequest) (*entities.DailySnapshot, error) {
	current, err := s.GetDaily(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	focusTime := current.FocusTime
	breaks := current.Breaks
	if req.FocusTime != nil {
		focusTime = *req.FocusTime
	}
	if req.Breaks != nil {
		breaks = *req.Breaks
	}

	if err := s.snapshotRepo.UpdateManual(ctx, userID, entities.DayStart(day), focusTime, breaks); err != nil {
		return nil, fmt.Errorf("update daily metrics: %w", err)
	}

	current.FocusTime = focusTime
	current.Breaks = breaks

	s.logger.Infow("Daily metrics updated",
		"user_id", userID,
		"date", entities.DayStart(day).Format("2006-01-02"),
		"focus_time", focusTime,
		"breaks", breaks,
	)

	return current, nil
}
