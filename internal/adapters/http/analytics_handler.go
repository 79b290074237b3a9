package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskpulse/core/internal/application/services"
	"github.com/taskpulse/core/internal/infrastructure/logger"
	"github.com/taskpulse/core/internal/ports"
)

// AnalyticsHandler serves the read side: daily snapshots, range stats,
// dashboard views, report summaries and exports.
type AnalyticsHandler struct {
	metricsService *services.MetricsService
	statsService   *services.StatsService
	exportService  *services.ExportService
	logger         *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(metricsService *services.MetricsService, statsService *services.StatsService, exportService *services.ExportService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		metricsService: metricsService,
		statsService:   statsService,
		exportService:  exportService,
		logger:         logger,
	}
}

// GetDaily returns the snapshot for one day, synthesizing a zero
// snapshot when the day has none yet. Defaults to today.
func (h *AnalyticsHandler) GetDaily(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	day := time.Now()
	if dateStr := c.QueryParam("date"); dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date parameter")
		}
	}

	snapshot, err := h.metricsService.GetDaily(c.Request().Context(), userID, day)
	if err != nil {
		h.logger.Errorw("Get daily snapshot failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve daily snapshot")
	}

	return c.JSON(http.StatusOK, snapshot)
}

// UpdateDaily edits the manually tracked fields of a day's snapshot.
func (h *AnalyticsHandler) UpdateDaily(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	day := time.Now()
	if dateStr := c.QueryParam("date"); dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date parameter")
		}
	}

	var req ports.UpdateDailyMetricsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snapshot, err := h.metricsService.UpdateDailyMetrics(c.Request().Context(), userID, day, req)
	if err != nil {
		h.logger.Errorw("Update daily metrics failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update daily metrics")
	}

	return c.JSON(http.StatusOK, snapshot)
}

// Recompute forces a recomputation of one day's snapshot.
func (h *AnalyticsHandler) Recompute(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	day := time.Now()
	if dateStr := c.QueryParam("date"); dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date parameter")
		}
	}

	snapshot, err := h.metricsService.RecomputeDay(c.Request().Context(), userID, day)
	if err != nil {
		h.logger.Errorw("Recompute failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to recompute snapshot")
	}

	return c.JSON(http.StatusOK, snapshot)
}

// GetStats returns range statistics for [start, end].
func (h *AnalyticsHandler) GetStats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	stats, err := h.statsService.GetRangeStats(c.Request().Context(), userID, start, end)
	if err != nil {
		h.logger.Errorw("Get stats failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

// GetDashboard returns the analytics view over the latest N days.
func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	days := 7
	if daysStr := c.QueryParam("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
	}

	dashboard, err := h.statsService.GetDashboard(c.Request().Context(), userID, days)
	if err != nil {
		h.logger.Errorw("Get dashboard failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve dashboard")
	}

	return c.JSON(http.StatusOK, dashboard)
}

// GetBreakdown returns status/category/priority counts computed from
// raw tasks for [start, end].
func (h *AnalyticsHandler) GetBreakdown(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	breakdown, err := h.statsService.GetTaskBreakdown(c.Request().Context(), userID, start, end)
	if err != nil {
		h.logger.Errorw("Get breakdown failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, breakdown)
}

// GetReport returns the report summary consumed by the report renderer.
func (h *AnalyticsHandler) GetReport(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	report, err := h.statsService.GetReportSummary(c.Request().Context(), userID, start, end)
	if err != nil {
		h.logger.Errorw("Get report failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, report)
}

// Export renders the range's snapshots in the requested format.
// CSV is served as a downloadable blob; JSON as an export envelope.
func (h *AnalyticsHandler) Export(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	format := c.QueryParam("format")
	switch format {
	case "", "csv":
		data, err := h.exportService.ExportCSV(c.Request().Context(), userID, start, end)
		if err != nil {
			h.logger.Errorw("CSV export failed", "error", err, "user_id", userID)
			return domainError(err)
		}
		filename := fmt.Sprintf("productivity-%s-%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Blob(http.StatusOK, "text/csv", data)
	case "json":
		envelope, err := h.exportService.ExportJSON(c.Request().Context(), userID, start, end)
		if err != nil {
			h.logger.Errorw("JSON export failed", "error", err, "user_id", userID)
			return domainError(err)
		}
		return c.JSON(http.StatusOK, envelope)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format parameter")
	}
}

// parseRange reads start/end query parameters; the default range is
// the last seven days ending today.
func parseRange(c echo.Context) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -6)

	if startStr := c.QueryParam("start"); startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid start parameter")
		}
		start = t
	}
	if endStr := c.QueryParam("end"); endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid end parameter")
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid date range")
	}

	return start, end, nil
}
