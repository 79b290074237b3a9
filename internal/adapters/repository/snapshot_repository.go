package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/ports"
)

// SnapshotRepositoryImpl implements the SnapshotRepository interface
type SnapshotRepositoryImpl struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db}
}

// snapshotRow mirrors the daily_snapshots table; the five category
// columns are folded into the CategoryBreakdown map on the way out.
type snapshotRow struct {
	ID                uuid.UUID `db:"id"`
	UserID            uuid.UUID `db:"user_id"`
	Date              time.Time `db:"date"`
	TasksPlanned      int       `db:"tasks_planned"`
	TasksCompleted    int       `db:"tasks_completed"`
	TotalWorkTime     int       `db:"total_work_time"`
	ProductivityScore int       `db:"productivity_score"`
	FocusTime         int       `db:"focus_time"`
	Breaks            int       `db:"breaks"`
	TimeWork          int       `db:"time_work"`
	TimePersonal      int       `db:"time_personal"`
	TimeHealth        int       `db:"time_health"`
	TimeLearning      int       `db:"time_learning"`
	TimeOther         int       `db:"time_other"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (row *snapshotRow) toEntity() *entities.DailySnapshot {
	breakdown := entities.NewCategoryBreakdown()
	breakdown[entities.CategoryWork] = row.TimeWork
	breakdown[entities.CategoryPersonal] = row.TimePersonal
	breakdown[entities.CategoryHealth] = row.TimeHealth
	breakdown[entities.CategoryLearning] = row.TimeLearning
	breakdown[entities.CategoryOther] = row.TimeOther

	return &entities.DailySnapshot{
		ID:                row.ID,
		UserID:            row.UserID,
		Date:              row.Date,
		TasksPlanned:      row.TasksPlanned,
		TasksCompleted:    row.TasksCompleted,
		TotalWorkTime:     row.TotalWorkTime,
		ProductivityScore: row.ProductivityScore,
		FocusTime:         row.FocusTime,
		Breaks:            row.Breaks,
		CategoryBreakdown: breakdown,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

const snapshotColumns = `id, user_id, date, tasks_planned, tasks_completed, total_work_time,
	productivity_score, focus_time, breaks, time_work, time_personal, time_health,
	time_learning, time_other, created_at, updated_at`

func (r *SnapshotRepositoryImpl) GetByDay(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM daily_snapshots WHERE user_id = $1 AND date = $2`

	var row snapshotRow
	err := r.db.GetContext(ctx, &row, query, userID, day)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot by day: %w", err)
	}

	return row.toEntity(), nil
}

func (r *SnapshotRepositoryImpl) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]*entities.DailySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM daily_snapshots
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
		LIMIT $4`

	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, from, to, limit); err != nil {
		return nil, fmt.Errorf("list snapshots for range: %w", err)
	}

	return rowsToEntities(rows), nil
}

func (r *SnapshotRepositoryImpl) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.DailySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM daily_snapshots
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`

	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list recent snapshots: %w", err)
	}

	return rowsToEntities(rows), nil
}

// UpsertDerived replaces the derived snapshot fields for (user, day)
// in one conditional write. The unique index on (user_id, date) plus
// ON CONFLICT guarantees a single row under concurrent first-writes;
// focus_time and breaks are deliberately absent from the update set so
// the manual-edit path survives recomputation.
func (r *SnapshotRepositoryImpl) UpsertDerived(ctx context.Context, snapshot *entities.DailySnapshot) error {
	query := `
		INSERT INTO daily_snapshots (id, user_id, date, tasks_planned, tasks_completed,
			total_work_time, productivity_score, time_work, time_personal, time_health,
			time_learning, time_other)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, date) DO UPDATE SET
			tasks_planned = EXCLUDED.tasks_planned,
			tasks_completed = EXCLUDED.tasks_completed,
			total_work_time = EXCLUDED.total_work_time,
			productivity_score = EXCLUDED.productivity_score,
			time_work = EXCLUDED.time_work,
			time_personal = EXCLUDED.time_personal,
			time_health = EXCLUDED.time_health,
			time_learning = EXCLUDED.time_learning,
			time_other = EXCLUDED.time_other,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, focus_time, breaks, created_at, updated_at`

	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}

	b := snapshot.CategoryBreakdown
	err := r.db.QueryRowContext(ctx, query,
		snapshot.ID, snapshot.UserID, snapshot.Date,
		snapshot.TasksPlanned, snapshot.TasksCompleted, snapshot.TotalWorkTime,
		snapshot.ProductivityScore,
		b[entities.CategoryWork], b[entities.CategoryPersonal], b[entities.CategoryHealth],
		b[entities.CategoryLearning], b[entities.CategoryOther],
	).Scan(&snapshot.ID, &snapshot.FocusTime, &snapshot.Breaks, &snapshot.CreatedAt, &snapshot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	return nil
}

// UpdateManual sets the manually editable fields, creating a
// zero-valued snapshot when the day has none yet.
func (r *SnapshotRepositoryImpl) UpdateManual(ctx context.Context, userID uuid.UUID, day time.Time, focusTime, breaks int) error {
	query := `
		INSERT INTO daily_snapshots (id, user_id, date, focus_time, breaks)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET
			focus_time = EXCLUDED.focus_time,
			breaks = EXCLUDED.breaks,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), userID, day, focusTime, breaks); err != nil {
		return fmt.Errorf("update manual metrics: %w", err)
	}

	return nil
}

func rowsToEntities(rows []snapshotRow) []*entities.DailySnapshot {
	snapshots := make([]*entities.DailySnapshot, 0, len(rows))
	for i := range rows {
		snapshots = append(snapshots, rows[i].toEntity())
	}
	return snapshots
}
