package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/infrastructure/logger"
)

func newStatsFixture() (*StatsService, *fakeTaskRepo, *fakeSnapshotRepo) {
	taskRepo := newFakeTaskRepo()
	snapshotRepo := newFakeSnapshotRepo()
	return NewStatsService(taskRepo, snapshotRepo, logger.NewNop()), taskRepo, snapshotRepo
}

func seedSnapshot(repo *fakeSnapshotRepo, userID uuid.UUID, day time.Time, planned, completed, workTime, score int, breakdown entities.CategoryBreakdown) {
	snap := entities.NewDailySnapshot(userID, day)
	snap.ID = uuid.New()
	snap.TasksPlanned = planned
	snap.TasksCompleted = completed
	snap.TotalWorkTime = workTime
	snap.ProductivityScore = score
	if breakdown != nil {
		snap.CategoryBreakdown.Merge(breakdown)
	}
	repo.put(snap)
}

func TestGetRangeStats(t *testing.T) {
	svc, _, snapshotRepo := newStatsFixture()
	userID := uuid.New()
	base := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	seedSnapshot(snapshotRepo, userID, base, 4, 2, 90, 50, entities.CategoryBreakdown{entities.CategoryWork: 90})
	seedSnapshot(snapshotRepo, userID, base.AddDate(0, 0, 1), 2, 2, 60, 100, entities.CategoryBreakdown{entities.CategoryHealth: 60})
	seedSnapshot(snapshotRepo, userID, base.AddDate(0, 0, 2), 3, 0, 0, 0, nil)

	stats, err := svc.GetRangeStats(context.Background(), userID, base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("GetRangeStats() error = %v", err)
	}

	if stats.TotalTasksPlanned != 9 || stats.TotalTasksCompleted != 4 {
		t.Errorf("totals planned=%d completed=%d, want 9/4", stats.TotalTasksPlanned, stats.TotalTasksCompleted)
	}
	if stats.TotalWorkTime != 150 {
		t.Errorf("TotalWorkTime = %d, want 150", stats.TotalWorkTime)
	}
	if stats.AverageProductivityScore != 50 {
		t.Errorf("AverageProductivityScore = %v, want 50", stats.AverageProductivityScore)
	}
	wantAvgTasks := 4.0 / 3.0
	if diff := stats.AverageTasksPerDay - wantAvgTasks; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AverageTasksPerDay = %v, want %v", stats.AverageTasksPerDay, wantAvgTasks)
	}
	if stats.CategoryBreakdown[entities.CategoryWork] != 90 || stats.CategoryBreakdown[entities.CategoryHealth] != 60 {
		t.Errorf("CategoryBreakdown = %v", stats.CategoryBreakdown)
	}

	if len(stats.DailyData) != 3 {
		t.Fatalf("DailyData length = %d, want 3", len(stats.DailyData))
	}
	if stats.DailyData[0].Date != "2026-03-09" || stats.DailyData[2].Date != "2026-03-11" {
		t.Errorf("DailyData not chronological: %v ... %v", stats.DailyData[0].Date, stats.DailyData[2].Date)
	}
}

func TestGetRangeStatsEmpty(t *testing.T) {
	svc, _, _ := newStatsFixture()
	userID := uuid.New()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	stats, err := svc.GetRangeStats(context.Background(), userID, start, start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("GetRangeStats() error = %v", err)
	}

	if stats.TotalTasksPlanned != 0 || stats.TotalTasksCompleted != 0 || stats.TotalWorkTime != 0 {
		t.Errorf("empty range totals not zero: %+v", stats)
	}
	if stats.AverageProductivityScore != 0 || stats.AverageTasksPerDay != 0 {
		t.Errorf("empty range averages not zero: avg=%v tasks/day=%v", stats.AverageProductivityScore, stats.AverageTasksPerDay)
	}
	if len(stats.DailyData) != 0 {
		t.Errorf("DailyData length = %d, want 0", len(stats.DailyData))
	}
}

func TestGetRangeStatsInvalidRange(t *testing.T) {
	svc, _, _ := newStatsFixture()
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.GetRangeStats(context.Background(), uuid.New(), end.AddDate(0, 0, 1), end); err != entities.ErrInvalidDateRange {
		t.Errorf("GetRangeStats() error = %v, want ErrInvalidDateRange", err)
	}
}

func TestBestDayTieResolvesToEarliest(t *testing.T) {
	base := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	scores := []int{40, 90, 90, 20}

	snapshots := make([]*entities.DailySnapshot, 0, len(scores))
	for i, score := range scores {
		snap := entities.NewDailySnapshot(uuid.New(), base.AddDate(0, 0, i))
		snap.ProductivityScore = score
		snapshots = append(snapshots, snap)
	}

	best := bestDay(snapshots)
	if best == nil {
		t.Fatal("bestDay() = nil")
	}
	if best.ProductivityScore != 90 {
		t.Errorf("best score = %d, want 90", best.ProductivityScore)
	}
	if best.Date != "2026-03-10" {
		t.Errorf("best date = %s, want 2026-03-10 (earliest of the tie)", best.Date)
	}

	if bestDay(nil) != nil {
		t.Error("bestDay(nil) != nil")
	}
}

func TestGetDashboard(t *testing.T) {
	svc, _, snapshotRepo := newStatsFixture()
	userID := uuid.New()
	base := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	seedSnapshot(snapshotRepo, userID, base, 2, 1, 30, 50, entities.CategoryBreakdown{entities.CategoryWork: 30})
	seedSnapshot(snapshotRepo, userID, base.AddDate(0, 0, 1), 2, 2, 80, 100, entities.CategoryBreakdown{entities.CategoryLearning: 80})

	data, err := svc.GetDashboard(context.Background(), userID, 7)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}

	if len(data.Daily) != 2 {
		t.Fatalf("Daily length = %d, want 2", len(data.Daily))
	}
	// Latest-N reads come back chronological for charting.
	if data.Daily[0].Date != "2026-03-09" || data.Daily[1].Date != "2026-03-10" {
		t.Errorf("Daily not chronological: %s, %s", data.Daily[0].Date, data.Daily[1].Date)
	}
	if len(data.Trends.Scores) != 2 || data.Trends.Scores[1] != 100 {
		t.Errorf("Trends.Scores = %v", data.Trends.Scores)
	}
	if data.Summary.TotalTasksCompleted != 3 || data.Summary.TotalWorkTime != 110 {
		t.Errorf("Summary totals: %+v", data.Summary)
	}
	if data.Summary.AverageProductivityScore != 75 {
		t.Errorf("AverageProductivityScore = %v, want 75", data.Summary.AverageProductivityScore)
	}
	if data.Summary.BestDay == nil || data.Summary.BestDay.Date != "2026-03-10" {
		t.Errorf("BestDay = %+v", data.Summary.BestDay)
	}
	if data.Breakdown[entities.CategoryWork] != 30 || data.Breakdown[entities.CategoryLearning] != 80 {
		t.Errorf("Breakdown = %v", data.Breakdown)
	}
}

func TestGetDashboardEmpty(t *testing.T) {
	svc, _, _ := newStatsFixture()

	data, err := svc.GetDashboard(context.Background(), uuid.New(), 7)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if data.Summary.BestDay != nil {
		t.Errorf("BestDay = %+v, want nil for empty window", data.Summary.BestDay)
	}
	if data.Summary.AverageProductivityScore != 0 {
		t.Errorf("AverageProductivityScore = %v, want 0", data.Summary.AverageProductivityScore)
	}
}

func TestGetTaskBreakdown(t *testing.T) {
	svc, taskRepo, _ := newStatsFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	high := seedTask(taskRepo, userID, day, entities.TaskStatusCompleted, entities.CategoryWork, 30)
	high.Priority = entities.PriorityHigh
	taskRepo.put(high)
	seedTask(taskRepo, userID, day, entities.TaskStatusPending, entities.CategoryHealth, 0)
	seedTask(taskRepo, userID, day.AddDate(0, 0, 1), entities.TaskStatusCompleted, entities.CategoryWork, 45)
	seedTask(taskRepo, userID, day.AddDate(0, 0, 2), entities.TaskStatusCancelled, entities.CategoryOther, 0)

	breakdown, err := svc.GetTaskBreakdown(context.Background(), userID, day, day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("GetTaskBreakdown() error = %v", err)
	}

	if breakdown.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d, want 4", breakdown.TotalTasks)
	}
	if breakdown.ByStatus[entities.TaskStatusCompleted] != 2 || breakdown.ByStatus[entities.TaskStatusPending] != 1 {
		t.Errorf("ByStatus = %v", breakdown.ByStatus)
	}
	if breakdown.ByCategory[entities.CategoryWork] != 2 {
		t.Errorf("ByCategory = %v", breakdown.ByCategory)
	}
	if breakdown.ByPriority[entities.PriorityHigh] != 1 || breakdown.ByPriority[entities.PriorityMedium] != 3 {
		t.Errorf("ByPriority = %v", breakdown.ByPriority)
	}
	if breakdown.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", breakdown.CompletionRate)
	}
}

func TestGetReportSummary(t *testing.T) {
	svc, taskRepo, snapshotRepo := newStatsFixture()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seedSnapshot(snapshotRepo, userID, day, 2, 2, 50, 100, entities.CategoryBreakdown{entities.CategoryWork: 50})
	seedTask(taskRepo, userID, day, entities.TaskStatusCompleted, entities.CategoryWork, 50)

	report, err := svc.GetReportSummary(context.Background(), userID, day, day.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("GetReportSummary() error = %v", err)
	}

	if report.Stats == nil || report.Breakdown == nil {
		t.Fatal("report missing stats or breakdown")
	}
	if report.BestDay == nil || report.BestDay.ProductivityScore != 100 {
		t.Errorf("BestDay = %+v", report.BestDay)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}
