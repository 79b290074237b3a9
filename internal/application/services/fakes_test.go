package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/ports"
)

// fakeTaskRepo is an in-memory TaskRepository for service tests.
type fakeTaskRepo struct {
	tasks map[uuid.UUID]*entities.Task
	err   error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*entities.Task)}
}

func (r *fakeTaskRepo) put(task *entities.Task) {
	copied := *task
	r.tasks[task.ID] = &copied
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *entities.Task) error {
	if r.err != nil {
		return r.err
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	r.put(task)
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	task, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *entities.Task) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return entities.ErrTaskNotFound
	}
	r.put(task)
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) List(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.Task
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && task.Category != *filter.Category {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r *fakeTaskRepo) Count(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) (int64, error) {
	tasks, err := r.List(ctx, userID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(tasks)), nil
}

func (r *fakeTaskRepo) ListForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*entities.Task, error) {
	return r.ListForRange(ctx, userID, dayStart, dayEnd)
}

func (r *fakeTaskRepo) ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entities.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.Task
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if task.ScheduledDate.Before(from) || task.ScheduledDate.After(to) {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

// fakeSnapshotRepo is an in-memory SnapshotRepository keyed by
// (user, day), mirroring the unique index of the real table.
type fakeSnapshotRepo struct {
	snapshots map[string]*entities.DailySnapshot
	err       error
	upserts   int
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string]*entities.DailySnapshot)}
}

func snapKey(userID uuid.UUID, day time.Time) string {
	return userID.String() + "/" + day.Format("2006-01-02")
}

func (r *fakeSnapshotRepo) put(snap *entities.DailySnapshot) {
	copied := *snap
	copied.CategoryBreakdown = entities.NewCategoryBreakdown()
	copied.CategoryBreakdown.Merge(snap.CategoryBreakdown)
	r.snapshots[snapKey(snap.UserID, snap.Date)] = &copied
}

func (r *fakeSnapshotRepo) get(userID uuid.UUID, day time.Time) (*entities.DailySnapshot, bool) {
	snap, ok := r.snapshots[snapKey(userID, day)]
	if !ok {
		return nil, false
	}
	copied := *snap
	copied.CategoryBreakdown = entities.NewCategoryBreakdown()
	copied.CategoryBreakdown.Merge(snap.CategoryBreakdown)
	return &copied, true
}

func (r *fakeSnapshotRepo) GetByDay(ctx context.Context, userID uuid.UUID, day time.Time) (*entities.DailySnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	snap, ok := r.get(userID, day)
	if !ok {
		return nil, entities.ErrSnapshotNotFound
	}
	return snap, nil
}

func (r *fakeSnapshotRepo) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]*entities.DailySnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.DailySnapshot
	for _, snap := range r.snapshots {
		if snap.UserID != userID || snap.Date.Before(from) || snap.Date.After(to) {
			continue
		}
		copied, _ := r.get(userID, snap.Date)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSnapshotRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.DailySnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.DailySnapshot
	for _, snap := range r.snapshots {
		if snap.UserID != userID {
			continue
		}
		copied, _ := r.get(userID, snap.Date)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSnapshotRepo) UpsertDerived(ctx context.Context, snapshot *entities.DailySnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.upserts++
	if existing, ok := r.get(snapshot.UserID, snapshot.Date); ok {
		// Manual fields survive derived upserts, as in the real table.
		snapshot.FocusTime = existing.FocusTime
		snapshot.Breaks = existing.Breaks
		snapshot.ID = existing.ID
	} else if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	r.put(snapshot)
	return nil
}

func (r *fakeSnapshotRepo) UpdateManual(ctx context.Context, userID uuid.UUID, day time.Time, focusTime, breaks int) error {
	if r.err != nil {
		return r.err
	}
	snap, ok := r.get(userID, day)
	if !ok {
		snap = entities.NewDailySnapshot(userID, day)
		snap.ID = uuid.New()
	}
	snap.FocusTime = focusTime
	snap.Breaks = breaks
	r.put(snap)
	return nil
}
