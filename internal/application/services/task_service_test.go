package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/infrastructure/logger"
	"github.com/taskpulse/core/internal/ports"
)

func newTaskFixture() (*TaskService, *fakeTaskRepo, *fakeSnapshotRepo) {
	taskRepo := newFakeTaskRepo()
	snapshotRepo := newFakeSnapshotRepo()
	metrics := NewMetricsService(taskRepo, snapshotRepo, logger.NewNop())
	return NewTaskService(taskRepo, metrics, logger.NewNop()), taskRepo, snapshotRepo
}

func TestCreateTaskRecomputesDay(t *testing.T) {
	svc, _, snapshotRepo := newTaskFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task, err := svc.CreateTask(context.Background(), userID, ports.CreateTaskRequest{
		Title:         "Write report",
		Category:      entities.CategoryWork,
		Priority:      entities.PriorityHigh,
		ScheduledDate: day,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if task.Status != entities.TaskStatusPending {
		t.Errorf("Status = %s, want pending", task.Status)
	}
	if task.EstimatedDuration != 60 {
		t.Errorf("EstimatedDuration = %d, want default 60", task.EstimatedDuration)
	}

	snap, err := snapshotRepo.GetByDay(context.Background(), userID, entities.DayStart(day))
	if err != nil {
		t.Fatalf("snapshot missing after create: %v", err)
	}
	if snap.TasksPlanned != 1 || snap.TasksCompleted != 0 {
		t.Errorf("snapshot planned=%d completed=%d, want 1/0", snap.TasksPlanned, snap.TasksCompleted)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	tests := []struct {
		name    string
		req     ports.CreateTaskRequest
		wantErr error
	}{
		{"empty title", ports.CreateTaskRequest{Category: entities.CategoryWork, Priority: entities.PriorityLow}, entities.ErrEmptyTitle},
		{"bad category", ports.CreateTaskRequest{Title: "x", Category: "chores", Priority: entities.PriorityLow}, entities.ErrInvalidCategory},
		{"bad priority", ports.CreateTaskRequest{Title: "x", Category: entities.CategoryWork, Priority: "critical"}, entities.ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateTask(context.Background(), userID, tt.req); err != tt.wantErr {
				t.Errorf("CreateTask() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompletionTransition(t *testing.T) {
	svc, taskRepo, _ := newTaskFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := seedTask(taskRepo, userID, day, entities.TaskStatusInProgress, entities.CategoryWork, 0)
	task.EstimatedDuration = 60
	taskRepo.put(task)

	completed := entities.TaskStatusCompleted
	actual := 30
	updated, err := svc.UpdateTask(context.Background(), userID, task.ID, ports.UpdateTaskRequest{
		Status:         &completed,
		ActualDuration: &actual,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped on completion")
	}
	if updated.ProductivityScore != 100 {
		t.Errorf("ProductivityScore = %d, want 100 (finished in half the estimate)", updated.ProductivityScore)
	}

	// A second save of the completed task must not re-stamp or rescore.
	stamp := *updated.CompletedAt
	notes := "done"
	resaved, err := svc.UpdateTask(context.Background(), userID, task.ID, ports.UpdateTaskRequest{
		Status: &completed,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("second UpdateTask() error = %v", err)
	}
	if !resaved.CompletedAt.Equal(stamp) {
		t.Errorf("CompletedAt re-stamped: %v -> %v", stamp, resaved.CompletedAt)
	}
}

func TestCompletionOverEstimate(t *testing.T) {
	svc, taskRepo, _ := newTaskFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := seedTask(taskRepo, userID, day, entities.TaskStatusPending, entities.CategoryWork, 0)
	task.EstimatedDuration = 60
	taskRepo.put(task)

	completed := entities.TaskStatusCompleted
	actual := 120
	updated, err := svc.UpdateTask(context.Background(), userID, task.ID, ports.UpdateTaskRequest{
		Status:         &completed,
		ActualDuration: &actual,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.ProductivityScore != 50 {
		t.Errorf("ProductivityScore = %d, want 50 (took double the estimate)", updated.ProductivityScore)
	}
}

func TestCompletionWithoutActualDurationKeepsScore(t *testing.T) {
	svc, taskRepo, _ := newTaskFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := seedTask(taskRepo, userID, day, entities.TaskStatusPending, entities.CategoryWork, 0)
	task.ProductivityScore = 42
	taskRepo.put(task)

	completed := entities.TaskStatusCompleted
	updated, err := svc.UpdateTask(context.Background(), userID, task.ID, ports.UpdateTaskRequest{Status: &completed})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.ProductivityScore != 42 {
		t.Errorf("ProductivityScore = %d, want prior value 42", updated.ProductivityScore)
	}
}

func TestRescheduleRecomputesBothDays(t *testing.T) {
	svc, taskRepo, snapshotRepo := newTaskFixture()
	userID := uuid.New()
	oldDay := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	newDay := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	task := seedTask(taskRepo, userID, oldDay, entities.TaskStatusPending, entities.CategoryWork, 0)

	if _, err := svc.UpdateTask(context.Background(), userID, task.ID, ports.UpdateTaskRequest{ScheduledDate: &newDay}); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	oldSnap, err := snapshotRepo.GetByDay(context.Background(), userID, entities.DayStart(oldDay))
	if err != nil {
		t.Fatalf("old day snapshot missing: %v", err)
	}
	if oldSnap.TasksPlanned != 0 {
		t.Errorf("old day TasksPlanned = %d, want 0 after reschedule", oldSnap.TasksPlanned)
	}

	newSnap, err := snapshotRepo.GetByDay(context.Background(), userID, entities.DayStart(newDay))
	if err != nil {
		t.Fatalf("new day snapshot missing: %v", err)
	}
	if newSnap.TasksPlanned != 1 {
		t.Errorf("new day TasksPlanned = %d, want 1", newSnap.TasksPlanned)
	}
}

func TestDeleteTaskRecomputesDay(t *testing.T) {
	svc, taskRepo, snapshotRepo := newTaskFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := seedTask(taskRepo, userID, day, entities.TaskStatusCompleted, entities.CategoryWork, 30)

	if err := svc.DeleteTask(context.Background(), userID, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	// Deleting the last task leaves a zero-count snapshot, not an
	// absent one.
	snap, err := snapshotRepo.GetByDay(context.Background(), userID, entities.DayStart(day))
	if err != nil {
		t.Fatalf("snapshot missing after delete: %v", err)
	}
	if snap.TasksPlanned != 0 || snap.TasksCompleted != 0 || snap.TotalWorkTime != 0 {
		t.Errorf("snapshot not zeroed after delete: %+v", snap)
	}
}

func TestGetTaskScopedToOwner(t *testing.T) {
	svc, taskRepo, _ := newTaskFixture()
	owner := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	task := seedTask(taskRepo, owner, day, entities.TaskStatusPending, entities.CategoryWork, 0)

	if _, err := svc.GetTask(context.Background(), uuid.New(), task.ID); err != entities.ErrTaskNotFound {
		t.Errorf("GetTask() by non-owner error = %v, want ErrTaskNotFound", err)
	}
}
