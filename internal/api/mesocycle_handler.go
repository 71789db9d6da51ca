// internal/api/mesocycle_handler.go
package api

import (
	"net/http"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MesocycleHandler struct {
	plannerService     service.PlannerService
	performanceService service.PerformanceService
	log                *logger.Logger
}

func NewMesocycleHandler(plannerService service.PlannerService, performanceService service.PerformanceService, log *logger.Logger) *MesocycleHandler {
	return &MesocycleHandler{plannerService: plannerService, performanceService: performanceService, log: log}
}

// scope resolves the caller and the :id path parameter shared by every mesocycle route.
func (h *MesocycleHandler) scope(c *gin.Context) (userID, mesocycleID primitive.ObjectID, ok bool) {
	if userID, ok = currentUser(c); !ok {
		return
	}
	mesocycleID, ok = idParam(c, "id")
	return
}

// --- DTOs for Mesocycles ---

type CreateMesocycleRequest struct {
	Name                string                 `json:"name" binding:"required,max=255"`
	Description         string                 `json:"description"`
	StartDate           string                 `json:"start_date" binding:"required"` // YYYY-MM-DD
	DurationWeeks       int                    `json:"duration_weeks" binding:"required"`
	TrainingDaysPerWeek int                    `json:"training_days_per_week" binding:"required"`
	Status              domain.MesocycleStatus `json:"status"`
	Settings            map[string]interface{} `json:"settings"`
}

type UpdateMesocycleRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Status      *domain.MesocycleStatus `json:"status"`
	Settings    map[string]interface{}  `json:"settings"`
}

type UpdateWeekRequest struct {
	WeekType          *domain.WeekType `json:"week_type"`
	IntensityModifier *float64         `json:"intensity_modifier"`
	VolumeModifier    *float64         `json:"volume_modifier"`
	Notes             *string          `json:"notes"`
}

type DuplicateWeekRequest struct {
	TargetWeekNumber int `json:"target_week_number" binding:"required"`
}

type UpdateTrainingDayRequest struct {
	Name      *string `json:"name"`
	Notes     *string `json:"notes"`
	DayOfWeek *string `json:"day_of_week"`
}

type DayMuscleGroupsRequest struct {
	MuscleGroupIDs []string `json:"muscle_group_ids"`
}

// --- Handler Methods for Mesocycles ---

// CreateMesocycle godoc
// @Summary Create a mesocycle with its week and day skeleton
// @Tags Mesocycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mesocycle body CreateMesocycleRequest true "Mesocycle parameters"
// @Success 201 {object} domain.Mesocycle
// @Failure 422 {object} ErrorResponse "Validation error"
// @Router /mesocycles [post]
func (h *MesocycleHandler) CreateMesocycle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateMesocycleRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(c, "start_date", req.StartDate)
	if !ok {
		return
	}

	mesocycle, err := h.plannerService.CreateMesocycle(c.Request.Context(), userID, service.CreateMesocycleInput{
		Name:                req.Name,
		Description:         req.Description,
		StartDate:           start,
		DurationWeeks:       req.DurationWeeks,
		TrainingDaysPerWeek: req.TrainingDaysPerWeek,
		Status:              req.Status,
		Settings:            req.Settings,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, mesocycle)
}

// ListMesocycles godoc
// @Summary List the user's mesocycles, newest first
// @Tags Mesocycles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.MesocycleSummary
// @Router /mesocycles [get]
func (h *MesocycleHandler) ListMesocycles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.plannerService.ListMesocycles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetMesocycle godoc
// @Summary Get the full nested view of a mesocycle
// @Tags Mesocycles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Success 200 {object} service.MesocycleView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /mesocycles/{id} [get]
func (h *MesocycleHandler) GetMesocycle(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.plannerService.GetMesocycle(c.Request.Context(), userID, mesocycleID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateMesocycle godoc
// @Summary Edit name, description, status or settings
// @Tags Mesocycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param mesocycle body UpdateMesocycleRequest true "Fields to change"
// @Success 200 {object} domain.Mesocycle
// @Router /mesocycles/{id} [patch]
func (h *MesocycleHandler) UpdateMesocycle(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	var req UpdateMesocycleRequest
	if !bindJSON(c, &req) {
		return
	}
	mesocycle, err := h.plannerService.UpdateMesocycle(c.Request.Context(), userID, mesocycleID, service.UpdateMesocycleInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Settings:    req.Settings,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mesocycle)
}

// DeleteMesocycle godoc
// @Summary Delete a mesocycle with all of its weeks, days and planned exercises
// @Tags Mesocycles
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Success 204
// @Router /mesocycles/{id} [delete]
func (h *MesocycleHandler) DeleteMesocycle(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.plannerService.DeleteMesocycle(c.Request.Context(), userID, mesocycleID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Weeks and Training Days ---

// UpdateWeek godoc
// @Summary Edit week type, modifiers or notes
// @Tags Mesocycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param weekId path string true "Week ID"
// @Success 200 {object} domain.MesocycleWeek
// @Router /mesocycles/{id}/weeks/{weekId} [patch]
func (h *MesocycleHandler) UpdateWeek(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	weekID, ok := idParam(c, "weekId")
	if !ok {
		return
	}
	var req UpdateWeekRequest
	if !bindJSON(c, &req) {
		return
	}
	week, err := h.plannerService.UpdateWeek(c.Request.Context(), userID, mesocycleID, weekID, service.UpdateWeekInput{
		WeekType:          req.WeekType,
		IntensityModifier: req.IntensityModifier,
		VolumeModifier:    req.VolumeModifier,
		Notes:             req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// DuplicateWeek godoc
// @Summary Copy a week's programming onto another week of the same mesocycle
// @Tags Mesocycles
// @Accept json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param weekId path string true "Source week ID"
// @Param request body DuplicateWeekRequest true "Target week number"
// @Success 204
// @Failure 404 {object} ErrorResponse "Target week not found"
// @Router /mesocycles/{id}/weeks/{weekId}/duplicate [post]
func (h *MesocycleHandler) DuplicateWeek(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	weekID, ok := idParam(c, "weekId")
	if !ok {
		return
	}
	var req DuplicateWeekRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.plannerService.DuplicateWeek(c.Request.Context(), userID, mesocycleID, weekID, req.TargetWeekNumber); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateTrainingDay godoc
// @Summary Edit name, notes or day of week of a training day
// @Tags Mesocycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param dayId path string true "Training day ID"
// @Success 200 {object} domain.TrainingDay
// @Router /mesocycles/{id}/training-days/{dayId} [patch]
func (h *MesocycleHandler) UpdateTrainingDay(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	dayID, ok := idParam(c, "dayId")
	if !ok {
		return
	}
	var req UpdateTrainingDayRequest
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.plannerService.UpdateTrainingDay(c.Request.Context(), userID, mesocycleID, dayID, service.UpdateTrainingDayInput{
		Name:      req.Name,
		Notes:     req.Notes,
		DayOfWeek: req.DayOfWeek,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// SetDayMuscleGroups godoc
// @Summary Replace the ordered muscle-group focus of a training day
// @Tags Mesocycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param dayId path string true "Training day ID"
// @Success 200 {object} domain.TrainingDay
// @Router /mesocycles/{id}/training-days/{dayId}/muscle-groups [put]
func (h *MesocycleHandler) SetDayMuscleGroups(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	dayID, ok := idParam(c, "dayId")
	if !ok {
		return
	}
	var req DayMuscleGroupsRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, ok := parseObjectIDs(c, "muscle_group_ids", req.MuscleGroupIDs)
	if !ok {
		return
	}
	day, err := h.plannerService.SetDayMuscleGroups(c.Request.Context(), userID, mesocycleID, dayID, ids)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// AddSecondSession godoc
// @Summary Split a training day into AM and PM sessions
// @Tags Mesocycles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param dayId path string true "Training day ID"
// @Success 201 {object} domain.TrainingDay "The new second session"
// @Failure 409 {object} ErrorResponse "Day already has a second session"
// @Router /mesocycles/{id}/training-days/{dayId}/second-session [post]
func (h *MesocycleHandler) AddSecondSession(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	dayID, ok := idParam(c, "dayId")
	if !ok {
		return
	}
	session, err := h.plannerService.AddSecondSession(c.Request.Context(), userID, mesocycleID, dayID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// RemoveSecondSession godoc
// @Summary Remove a second session and its planned exercises
// @Tags Mesocycles
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param dayId path string true "Second session ID"
// @Success 204
// @Router /mesocycles/{id}/training-days/{dayId}/second-session [delete]
func (h *MesocycleHandler) RemoveSecondSession(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	dayID, ok := idParam(c, "dayId")
	if !ok {
		return
	}
	if err := h.plannerService.RemoveSecondSession(c.Request.Context(), userID, mesocycleID, dayID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
