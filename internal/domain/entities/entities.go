package entities

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Enums and types
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryOther    Category = "other"
)

// Categories lists every task category in the canonical order used by
// aggregation loops and export columns.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// CategoryBreakdown maps each category to minutes of completed work.
type CategoryBreakdown map[Category]int

// NewCategoryBreakdown returns a breakdown with every category
// initialized to zero, so additive loops never miss a key.
func NewCategoryBreakdown() CategoryBreakdown {
	b := make(CategoryBreakdown, len(Categories()))
	for _, c := range Categories() {
		b[c] = 0
	}
	return b
}

// Add attributes minutes to a category. Unknown categories are ignored
// rather than creating stray keys.
func (b CategoryBreakdown) Add(c Category, minutes int) {
	if !c.IsValid() {
		return
	}
	b[c] += minutes
}

// Merge adds every recognized key of other into b.
func (b CategoryBreakdown) Merge(other CategoryBreakdown) {
	for c, minutes := range other {
		b.Add(c, minutes)
	}
}

// Total returns the summed minutes across all recognized categories.
func (b CategoryBreakdown) Total() int {
	total := 0
	for _, c := range Categories() {
		total += b[c]
	}
	return total
}

// Task represents a user-scheduled unit of work.
type Task struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	Category          Category   `json:"category" db:"category"`
	Priority          Priority   `json:"priority" db:"priority"`
	Status            TaskStatus `json:"status" db:"status"`
	ScheduledDate     time.Time  `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime     string     `json:"scheduled_time" db:"scheduled_time"`
	EstimatedDuration int        `json:"estimated_duration" db:"estimated_duration"`
	ActualDuration    int        `json:"actual_duration" db:"actual_duration"`
	CompletedAt       *time.Time `json:"completed_at" db:"completed_at"`
	ProductivityScore int        `json:"productivity_score" db:"productivity_score"`
	Notes             string     `json:"notes" db:"notes"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCompleted reports whether the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Complete transitions the task into the completed status. CompletedAt
// is stamped exactly once, at the moment of the transition; re-saving
// an already-completed task leaves it untouched.
func (t *Task) Complete(at time.Time) {
	if t.Status == TaskStatusCompleted {
		return
	}
	t.Status = TaskStatusCompleted
	t.CompletedAt = &at
}

// EfficiencyScore derives the per-task time-efficiency score on
// completion: estimated over actual duration as a percentage, clamped
// to [0, 100]. A task finished faster than estimated caps at 100; one
// that ran over scores proportionally lower. When no actual duration
// was recorded there is nothing to score and ok is false.
func (t *Task) EfficiencyScore() (score int, ok bool) {
	if t.ActualDuration <= 0 || t.EstimatedDuration <= 0 {
		return 0, false
	}
	ratio := float64(t.EstimatedDuration) / float64(t.ActualDuration) * 100
	if ratio > 100 {
		ratio = 100
	}
	return int(math.Round(ratio)), true
}

// DailySnapshot is the derived productivity record for one (user, day).
// It is recomputed wholesale from the day's tasks; FocusTime and Breaks
// come from a separate manual-edit path and are never touched by
// recomputation.
type DailySnapshot struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	UserID            uuid.UUID         `json:"user_id" db:"user_id"`
	Date              time.Time         `json:"date" db:"date"`
	TasksPlanned      int               `json:"tasks_planned" db:"tasks_planned"`
	TasksCompleted    int               `json:"tasks_completed" db:"tasks_completed"`
	TotalWorkTime     int               `json:"total_work_time" db:"total_work_time"`
	ProductivityScore int               `json:"productivity_score" db:"productivity_score"`
	FocusTime         int               `json:"focus_time" db:"focus_time"`
	Breaks            int               `json:"breaks" db:"breaks"`
	CategoryBreakdown CategoryBreakdown `json:"category_breakdown" db:"-"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// NewDailySnapshot returns a zero-valued snapshot for the given day,
// used both as the recomputation base and as the synthesized read
// result when no snapshot has been persisted yet.
func NewDailySnapshot(userID uuid.UUID, day time.Time) *DailySnapshot {
	return &DailySnapshot{
		UserID:            userID,
		Date:              DayStart(day),
		CategoryBreakdown: NewCategoryBreakdown(),
	}
}

// ComputeFromTasks rebuilds every derived field of the snapshot from
// the full task set of its day. Calling it twice with the same tasks
// yields identical results; there is no accumulation.
func (s *DailySnapshot) ComputeFromTasks(tasks []*Task) {
	s.TasksPlanned = len(tasks)
	s.TasksCompleted = 0
	s.TotalWorkTime = 0
	s.CategoryBreakdown = NewCategoryBreakdown()

	for _, t := range tasks {
		if !t.IsCompleted() {
			continue
		}
		s.TasksCompleted++
		s.TotalWorkTime += t.ActualDuration
		s.CategoryBreakdown.Add(t.Category, t.ActualDuration)
	}

	s.ProductivityScore = CompletionScore(s.TasksCompleted, s.TasksPlanned)
}

// CompletionScore converts a completed/planned ratio into a 0-100
// score, rounding half-up. Zero planned tasks score zero.
func CompletionScore(completed, planned int) int {
	if planned <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(planned) * 100))
}

// DayStart normalizes t to 00:00:00 of its calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last instant of t's calendar day.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Utility methods
func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}
