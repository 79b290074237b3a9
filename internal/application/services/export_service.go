package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/taskpulse/core/internal/domain/entities"
	"github.com/taskpulse/core/internal/infrastructure/logger"
	"github.com/taskpulse/core/internal/ports"
)

// csvHeader is the fixed export column order: the snapshot fields
// first, then one work-time column per category in canonical order.
var csvHeader = []string{
	"Date",
	"Tasks Completed",
	"Tasks Planned",
	"Productivity Score",
	"Total Work Time",
	"Focus Time",
	"Breaks",
	"Work Time (work)",
	"Work Time (personal)",
	"Work Time (health)",
	"Work Time (learning)",
	"Work Time (other)",
}

// ExportService renders aggregated snapshot data into the CSV and
// JSON export shapes consumed by downstream tooling and the report
// renderer.
type ExportService struct {
	snapshotRepo ports.SnapshotRepository
	maxRangeDays int
	logger       *logger.Logger
}

// NewExportService creates a new export service. maxRangeDays bounds
// how many daily records a single export may cover; values below one
// fall back to the default range cap.
func NewExportService(snapshotRepo ports.SnapshotRepository, maxRangeDays int, logger *logger.Logger) *ExportService {
	if maxRangeDays <= 0 {
		maxRangeDays = maxRangeSnapshots
	}
	return &ExportService{
		snapshotRepo: snapshotRepo,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// ExportCSV renders the range's snapshots as CSV text: always one
// header row, then one row per snapshot in chronological order.
// Categories with no completed work render as 0.
func (s *ExportService) ExportCSV(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]byte, error) {
	snapshots, err := s.listRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}

	for _, snap := range snapshots {
		row := []string{
			snap.Date.Format(dateLayout),
			strconv.Itoa(snap.TasksCompleted),
			strconv.Itoa(snap.TasksPlanned),
			strconv.Itoa(snap.ProductivityScore),
			strconv.Itoa(snap.TotalWorkTime),
			strconv.Itoa(snap.FocusTime),
			strconv.Itoa(snap.Breaks),
		}
		for _, c := range entities.Categories() {
			row = append(row, strconv.Itoa(snap.CategoryBreakdown[c]))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}

	s.logger.Infow("CSV export generated", "user_id", userID, "rows", len(snapshots))

	return buf.Bytes(), nil
}

// ExportJSON builds the JSON export envelope: export timestamp, the
// requested range bounds and the full per-day records including the
// nested category breakdown.
func (s *ExportService) ExportJSON(ctx context.Context, userID uuid.UUID, start, end time.Time) (*ports.ExportEnvelope, error) {
	snapshots, err := s.listRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	envelope := &ports.ExportEnvelope{
		ExportedAt: time.Now(),
		StartDate:  start.Format(dateLayout),
		EndDate:    end.Format(dateLayout),
		Days:       make([]ports.ExportDay, 0, len(snapshots)),
	}

	for _, snap := range snapshots {
		breakdown := entities.NewCategoryBreakdown()
		breakdown.Merge(snap.CategoryBreakdown)
		envelope.Days = append(envelope.Days, ports.ExportDay{
			Date:              snap.Date.Format(dateLayout),
			TasksPlanned:      snap.TasksPlanned,
			TasksCompleted:    snap.TasksCompleted,
			TotalWorkTime:     snap.TotalWorkTime,
			ProductivityScore: snap.ProductivityScore,
			FocusTime:         snap.FocusTime,
			Breaks:            snap.Breaks,
			CategoryBreakdown: breakdown,
		})
	}

	s.logger.Infow("JSON export generated", "user_id", userID, "days", len(envelope.Days))

	return envelope, nil
}

func (s *ExportService) listRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entities.DailySnapshot, error) {
	if end.Before(start) {
		return nil, entities.ErrInvalidDateRange
	}

	snapshots, err := s.snapshotRepo.ListRange(ctx, userID, entities.DayStart(start), entities.DayEnd(end), s.maxRangeDays)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	return snapshots, nil
}
