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

// Range reads are bounded so a badly chosen range cannot pull an
// unbounded result set.
const maxRangeSnapshots = 100

const dateLayout = "2006-01-02"

// StatsService combines daily snapshots into range statistics,
// dashboard series and report summaries. It is a pure reader: it
// never writes snapshots and accepts the staleness window of
// concurrent recomputation.
type StatsService struct {
	taskRepo     ports.TaskRepository
	snapshotRepo ports.SnapshotRepository
	logger       *logger.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(taskRepo ports.TaskRepository, snapshotRepo ports.SnapshotRepository, logger *logger.Logger) *StatsService {
	return &StatsService{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

// GetRangeStats aggregates the snapshots inside [start, end]. An empty
// range yields zero totals and zero averages, never a division error.
func (s *StatsService) GetRangeStats(ctx context.Context, userID uuid.UUID, start, end time.Time) (*ports.RangeStats, error) {
	if end.Before(start) {
		return nil, entities.ErrInvalidDateRange
	}

	snapshots, err := s.snapshotRepo.ListRange(ctx, userID, entities.DayStart(start), entities.DayEnd(end), maxRangeSnapshots)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	stats := &ports.RangeStats{
		StartDate:         start.Format(dateLayout),
		EndDate:           end.Format(dateLayout),
		CategoryBreakdown: entities.NewCategoryBreakdown(),
		DailyData:         make([]ports.DailyPoint, 0, len(snapshots)),
	}

	scoreSum := 0
	for _, snap := range snapshots {
		stats.TotalTasksPlanned += snap.TasksPlanned
		stats.TotalTasksCompleted += snap.TasksCompleted
		stats.TotalWorkTime += snap.TotalWorkTime
		stats.CategoryBreakdown.Merge(snap.CategoryBreakdown)
		scoreSum += snap.ProductivityScore
		stats.DailyData = append(stats.DailyData, dailyPoint(snap))
	}

	if n := len(snapshots); n > 0 {
		stats.AverageProductivityScore = float64(scoreSum) / float64(n)
		stats.AverageTasksPerDay = float64(stats.TotalTasksCompleted) / float64(n)
	}

	return stats, nil
}

// GetDashboard builds the analytics view over the latest N days of
// snapshots, returned in chronological order for charting.
func (s *StatsService) GetDashboard(ctx context.Context, userID uuid.UUID, days int) (*ports.DashboardData, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxRangeSnapshots {
		days = maxRangeSnapshots
	}

	recent, err := s.snapshotRepo.ListRecent(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	// ListRecent is date-descending; flip to chronological order.
	snapshots := make([]*entities.DailySnapshot, len(recent))
	for i, snap := range recent {
		snapshots[len(recent)-1-i] = snap
	}

	data := &ports.DashboardData{
		Days:      days,
		Daily:     make([]ports.DailyPoint, 0, len(snapshots)),
		Breakdown: entities.NewCategoryBreakdown(),
		Trends: ports.TrendSeries{
			Dates:     make([]string, 0, len(snapshots)),
			Scores:    make([]int, 0, len(snapshots)),
			Completed: make([]int, 0, len(snapshots)),
			WorkTime:  make([]int, 0, len(snapshots)),
		},
	}

	scoreSum := 0
	for _, snap := range snapshots {
		point := dailyPoint(snap)
		data.Daily = append(data.Daily, point)
		data.Trends.Dates = append(data.Trends.Dates, point.Date)
		data.Trends.Scores = append(data.Trends.Scores, point.ProductivityScore)
		data.Trends.Completed = append(data.Trends.Completed, point.TasksCompleted)
		data.Trends.WorkTime = append(data.Trends.WorkTime, point.TotalWorkTime)
		data.Breakdown.Merge(snap.CategoryBreakdown)

		data.Summary.TotalTasksCompleted += snap.TasksCompleted
		data.Summary.TotalWorkTime += snap.TotalWorkTime
		scoreSum += snap.ProductivityScore
	}

	if n := len(snapshots); n > 0 {
		data.Summary.AverageProductivityScore = float64(scoreSum) / float64(n)
	}
	data.Summary.BestDay = bestDay(snapshots)

	return data, nil
}

// GetTaskBreakdown computes point-in-time counts by status, category
// and priority straight from raw task records. Snapshots cannot serve
// this view because priority is not part of the snapshot schema.
func (s *StatsService) GetTaskBreakdown(ctx context.Context, userID uuid.UUID, start, end time.Time) (*ports.TaskBreakdown, error) {
	if end.Before(start) {
		return nil, entities.ErrInvalidDateRange
	}

	tasks, err := s.taskRepo.ListForRange(ctx, userID, entities.DayStart(start), entities.DayEnd(end))
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	breakdown := &ports.TaskBreakdown{
		StartDate:  start.Format(dateLayout),
		EndDate:    end.Format(dateLayout),
		TotalTasks: len(tasks),
		ByStatus:   make(map[entities.TaskStatus]int),
		ByCategory: make(map[entities.Category]int),
		ByPriority: make(map[entities.Priority]int),
	}

	completed := 0
	for _, t := range tasks {
		breakdown.ByStatus[t.Status]++
		breakdown.ByCategory[t.Category]++
		breakdown.ByPriority[t.Priority]++
		if t.IsCompleted() {
			completed++
		}
	}

	if len(tasks) > 0 {
		breakdown.CompletionRate = float64(completed) / float64(len(tasks)) * 100
	}

	return breakdown, nil
}

// GetReportSummary assembles the data shapes the external report
// renderer consumes: range stats, the raw-task breakdown and the best
// day of the range.
func (s *StatsService) GetReportSummary(ctx context.Context, userID uuid.UUID, start, end time.Time) (*ports.ReportSummary, error) {
	stats, err := s.GetRangeStats(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.GetTaskBreakdown(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.ListRange(ctx, userID, entities.DayStart(start), entities.DayEnd(end), maxRangeSnapshots)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	return &ports.ReportSummary{
		GeneratedAt: time.Now(),
		Stats:       stats,
		Breakdown:   breakdown,
		BestDay:     bestDay(snapshots),
	}, nil
}

// bestDay picks the snapshot with the maximum productivity score from
// a chronologically ordered slice. Ties resolve to the earliest day;
// an empty slice yields nil.
func bestDay(snapshots []*entities.DailySnapshot) *ports.DailyPoint {
	var best *entities.DailySnapshot
	for _, snap := range snapshots {
		if best == nil || snap.ProductivityScore > best.ProductivityScore {
			best = snap
		}
	}
	if best == nil {
		return nil
	}
	point := dailyPoint(best)
	return &point
}

func dailyPoint(snap *entities.DailySnapshot) ports.DailyPoint {
	return ports.DailyPoint{
		Date:              snap.Date.Format(dateLayout),
		TasksPlanned:      snap.TasksPlanned,
		TasksCompleted:    snap.TasksCompleted,
		TotalWorkTime:     snap.TotalWorkTime,
		ProductivityScore: snap.ProductivityScore,
		FocusTime:         snap.FocusTime,
		Breaks:            snap.Breaks,
	}
}
