package api

import (
	"net/http"
	"strconv"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricHandler struct {
	metricService service.MetricService
	log           *logger.Logger
}

func NewMetricHandler(metricService service.MetricService, log *logger.Logger) *MetricHandler {
	return &MetricHandler{metricService: metricService, log: log}
}

// --- DTOs for Daily Metrics ---

type RecordMetricRequest struct {
	Date       string            `json:"date" binding:"required"` // YYYY-MM-DD
	MetricType domain.MetricType `json:"metric_type" binding:"required"`
	Value      *float64          `json:"value" binding:"required"`
	Unit       string            `json:"unit"`
	Notes      string            `json:"notes"`
}

type UpdateMetricRequest struct {
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
	Notes *string  `json:"notes"`
}

// refDate reads the optional ?date= query parameter, defaulting to today.
func refDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	return parseDate(c, "date", raw)
}

// --- Handler Methods for Daily Metrics ---

// RecordMetric godoc
// @Summary Record a daily metric, overwriting an earlier value for the same day and type
// @Tags Daily Metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param metric body RecordMetricRequest true "Metric"
// @Success 200 {object} domain.DailyMetric
// @Failure 422 {object} ErrorResponse "Validation error"
// @Router /daily-metrics [post]
func (h *MetricHandler) RecordMetric(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req RecordMetricRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	metric, err := h.metricService.RecordMetric(c.Request.Context(), userID, service.RecordMetricInput{
		Date:       date,
		MetricType: req.MetricType,
		Value:      *req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}

// UpdateMetric godoc
// @Summary Edit value, unit or notes of a recorded metric
// @Tags Daily Metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Metric ID"
// @Success 200 {object} domain.DailyMetric
// @Router /daily-metrics/{id} [patch]
func (h *MetricHandler) UpdateMetric(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	metricID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateMetricRequest
	if !bindJSON(c, &req) {
		return
	}
	metric, err := h.metricService.UpdateMetric(c.Request.Context(), userID, metricID, service.UpdateMetricInput{
		Value: req.Value,
		Unit:  req.Unit,
		Notes: req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}

// DeleteMetric godoc
// @Summary Delete a recorded metric
// @Tags Daily Metrics
// @Security BearerAuth
// @Param id path string true "Metric ID"
// @Success 204
// @Router /daily-metrics/{id} [delete]
func (h *MetricHandler) DeleteMetric(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	metricID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.metricService.DeleteMetric(c.Request.Context(), userID, metricID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDashboard godoc
// @Summary Rolling averages and latest values of every metric type
// @Tags Daily Metrics
// @Produce json
// @Security BearerAuth
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} service.Dashboard
// @Router /daily-metrics/dashboard [get]
func (h *MetricHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ref, ok := refDate(c)
	if !ok {
		return
	}
	dashboard, err := h.metricService.Dashboard(c.Request.Context(), userID, ref)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetRollingAverage godoc
// @Summary Rolling average series of one metric type
// @Tags Daily Metrics
// @Produce json
// @Security BearerAuth
// @Param type query string true "bodyweight or steps"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param window query int false "Window in days (default 7)"
// @Success 200 {array} domain.RollingPoint
// @Router /daily-metrics/rolling [get]
func (h *MetricHandler) GetRollingAverage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ref, ok := refDate(c)
	if !ok {
		return
	}
	window := domain.DefaultRollingWindowDays
	if raw := c.Query("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithFieldError(c, "window", "window: must be a positive integer")
			return
		}
		window = n
	}

	points, err := h.metricService.RollingAverage(c.Request.Context(), userID, domain.MetricType(c.Query("type")), ref, window)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if points == nil {
		points = []domain.RollingPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// GetLatest godoc
// @Summary Most recent value of one metric type
// @Tags Daily Metrics
// @Produce json
// @Security BearerAuth
// @Param type query string true "bodyweight or steps"
// @Success 200 {object} domain.DailyMetric
// @Failure 404 {object} ErrorResponse "Nothing recorded yet"
// @Router /daily-metrics/latest [get]
func (h *MetricHandler) GetLatest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	metric, err := h.metricService.Latest(c.Request.Context(), userID, domain.MetricType(c.Query("type")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}
