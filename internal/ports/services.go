package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/core/internal/domain/entities"
)

// TaskService interface for task management operations
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	ListTasks(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, int64, error)
}

// MetricsService interface for the daily snapshot recomputation engine
type MetricsService interface {
	RecomputeDay(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error)
	GetDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error)
	UpdateDailyMetrics(ctx context.Context, userID uuid.UUID, day time.Time, req UpdateDailyMetricsRequest) (*entities.DailySnapshot, error)
}

// StatsService interface for multi-day rollups and dashboard views
type StatsService interface {
	GetRangeStats(ctx context.Context, userID uuid.UUID, start, end time.Time) (*RangeStats, error)
	GetDashboard(ctx context.Context, userID uuid.UUID, days int) (*DashboardData, error)
	GetTaskBreakdown(ctx context.Context, userID uuid.UUID, start, end time.Time) (*TaskBreakdown, error)
	GetReportSummary(ctx context.Context, userID uuid.UUID, start, end time.Time) (*ReportSummary, error)
}

// ExportService interface for rendering aggregated data
type ExportService interface {
	ExportCSV(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]byte, error)
	ExportJSON(ctx context.Context, userID uuid.UUID, start, end time.Time) (*ExportEnvelope, error)
}

// Request/Response Types

// Task related types
type CreateTaskRequest struct {
	Title             string            `json:"title" validate:"required,max=500"`
	Description       string            `json:"description" validate:"omitempty,max=2000"`
	Category          entities.Category `json:"category" validate:"required"`
	Priority          entities.Priority `json:"priority" validate:"required"`
	ScheduledDate     time.Time         `json:"scheduled_date" validate:"required"`
	ScheduledTime     string            `json:"scheduled_time" validate:"omitempty,len=5"`
	EstimatedDuration *int              `json:"estimated_duration" validate:"omitempty,min=1"`
	Notes             string            `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateTaskRequest is a typed partial update: only non-nil fields are
// applied, which doubles as the allowed-field whitelist.
type UpdateTaskRequest struct {
	Title             *string              `json:"title" validate:"omitempty,max=500"`
	Description       *string              `json:"description" validate:"omitempty,max=2000"`
	Category          *entities.Category   `json:"category" validate:"omitempty"`
	Priority          *entities.Priority   `json:"priority" validate:"omitempty"`
	Status            *entities.TaskStatus `json:"status" validate:"omitempty"`
	ScheduledDate     *time.Time           `json:"scheduled_date"`
	ScheduledTime     *string              `json:"scheduled_time" validate:"omitempty,len=5"`
	EstimatedDuration *int                 `json:"estimated_duration" validate:"omitempty,min=1"`
	ActualDuration    *int                 `json:"actual_duration" validate:"omitempty,min=0"`
	Notes             *string              `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateDailyMetricsRequest edits the manual fields of a daily
// snapshot; recomputation never touches these.
type UpdateDailyMetricsRequest struct {
	FocusTime *int `json:"focus_time" validate:"omitempty,min=0"`
	Breaks    *int `json:"breaks" validate:"omitempty,min=0"`
}

// RangeStats aggregates N daily snapshots over a date range.
type RangeStats struct {
	StartDate                string                     `json:"start_date"`
	EndDate                  string                     `json:"end_date"`
	TotalTasksPlanned        int                        `json:"total_tasks_planned"`
	TotalTasksCompleted      int                        `json:"total_tasks_completed"`
	TotalWorkTime            int                        `json:"total_work_time"`
	AverageProductivityScore float64                    `json:"average_productivity_score"`
	AverageTasksPerDay       float64                    `json:"average_tasks_per_day"`
	CategoryBreakdown        entities.CategoryBreakdown `json:"category_breakdown"`
	DailyData                []DailyPoint               `json:"daily_data"`
}

// DailyPoint is the per-snapshot projection used for charting.
type DailyPoint struct {
	Date              string `json:"date"`
	TasksPlanned      int    `json:"tasks_planned"`
	TasksCompleted    int    `json:"tasks_completed"`
	TotalWorkTime     int    `json:"total_work_time"`
	ProductivityScore int    `json:"productivity_score"`
	FocusTime         int    `json:"focus_time"`
	Breaks            int    `json:"breaks"`
}

// DashboardData is the read-side analytics view over recent days.
type DashboardData struct {
	Days      int                        `json:"days"`
	Daily     []DailyPoint               `json:"daily"`
	Trends    TrendSeries                `json:"trends"`
	Breakdown entities.CategoryBreakdown `json:"breakdown"`
	Summary   DashboardSummary           `json:"summary"`
}

// TrendSeries carries parallel chronological series for charting.
type TrendSeries struct {
	Dates     []string `json:"dates"`
	Scores    []int    `json:"scores"`
	Completed []int    `json:"completed"`
	WorkTime  []int    `json:"work_time"`
}

// DashboardSummary summarizes the dashboard window. BestDay is nil
// when the window holds no snapshots.
type DashboardSummary struct {
	TotalTasksCompleted      int         `json:"total_tasks_completed"`
	TotalWorkTime            int         `json:"total_work_time"`
	AverageProductivityScore float64     `json:"average_productivity_score"`
	BestDay                  *DailyPoint `json:"best_day"`
}

// TaskBreakdown is computed straight from raw task records; priority
// is not captured in the snapshot schema, so snapshots cannot serve it.
type TaskBreakdown struct {
	StartDate      string                      `json:"start_date"`
	EndDate        string                      `json:"end_date"`
	TotalTasks     int                         `json:"total_tasks"`
	CompletionRate float64                     `json:"completion_rate"`
	ByStatus       map[entities.TaskStatus]int `json:"by_status"`
	ByCategory     map[entities.Category]int   `json:"by_category"`
	ByPriority     map[entities.Priority]int   `json:"by_priority"`
}

// ReportSummary feeds the external report renderer.
type ReportSummary struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Stats       *RangeStats    `json:"stats"`
	Breakdown   *TaskBreakdown `json:"breakdown"`
	BestDay     *DailyPoint    `json:"best_day"`
}

// ExportEnvelope is the JSON export shape: full per-day records with
// the nested category breakdown, plus range bounds and a timestamp.
type ExportEnvelope struct {
	ExportedAt time.Time   `json:"exported_at"`
	StartDate  string      `json:"start_date"`
	EndDate    string      `json:"end_date"`
	Days       []ExportDay `json:"days"`
}

// ExportDay is one exported daily record.
type ExportDay struct {
	Date              string                     `json:"date"`
	TasksPlanned      int                        `json:"tasks_planned"`
	TasksCompleted    int                        `json:"tasks_completed"`
	TotalWorkTime     int                        `json:"total_work_time"`
	ProductivityScore int                        `json:"productivity_score"`
	FocusTime         int                        `json:"focus_time"`
	Breaks            int                        `json:"breaks"`
	CategoryBreakdown entities.CategoryBreakdown `json:"category_breakdown"`
}

// Response types for pagination and common structures
type PaginatedResponse[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
