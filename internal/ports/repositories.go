package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/core/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	Count(ctx context.Context, userID uuid.UUID, filter TaskFilter) (int64, error)
	// ListForDay returns every task of the user whose scheduled date
	// falls inside [dayStart, dayEnd].
	ListForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*entities.Task, error)
	// ListForRange returns tasks scheduled inside [from, to], used by
	// breakdowns that must be computed from raw tasks rather than
	// snapshots.
	ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entities.Task, error)
}

// SnapshotRepository defines the interface for daily snapshot data
// operations. The engine is the only writer of derived fields.
type SnapshotRepository interface {
	GetByDay(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error)
	// ListRange returns snapshots inside [from, to] sorted by date
	// ascending, capped at limit rows.
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]*entities.DailySnapshot, error)
	// ListRecent returns the latest limit snapshots sorted by date
	// descending.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.DailySnapshot, error)
	// UpsertDerived atomically inserts or replaces the derived fields
	// of the snapshot for (user, day). FocusTime and Breaks are left
	// as stored on update; they belong to the manual-edit path.
	UpsertDerived(ctx context.Context, snapshot *entities.DailySnapshot) error
	// UpdateManual sets the manually editable fields for (user, day),
	// inserting a zero-valued snapshot when none exists yet.
	UpdateManual(ctx context.Context, userID uuid.UUID, day time.Time, focusTime, breaks int) error
}

// TaskFilter narrows task list queries. Nil fields are not applied.
type TaskFilter struct {
	Status        *entities.TaskStatus
	Category      *entities.Category
	Priority      *entities.Priority
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
	SortBy        string
	SortOrder     string
}
