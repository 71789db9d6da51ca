package api

import (
	"net/http"

	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// --- DTOs for Planned Exercises ---

type AddPlannedExerciseRequest struct {
	ExerciseID      string   `json:"exercise_id" binding:"required"`
	Sets            int      `json:"sets" binding:"required"`
	RepRange        string   `json:"rep_range" binding:"required"`
	IntensityTypeID *string  `json:"intensity_type_id"`
	IntensityValue  *float64 `json:"intensity_value"`
	TechniqueTypeID *string  `json:"technique_type_id"`
	RestSeconds     *int     `json:"rest_seconds"`
	Notes           string   `json:"notes"`
}

// UpdatePlannedExerciseRequest changes only the fields present. clear_intensity and
// clear_technique drop the corresponding prescription.
type UpdatePlannedExerciseRequest struct {
	ExerciseID      *string  `json:"exercise_id"`
	Sets            *int     `json:"sets"`
	RepRange        *string  `json:"rep_range"`
	IntensityTypeID *string  `json:"intensity_type_id"`
	IntensityValue  *float64 `json:"intensity_value"`
	TechniqueTypeID *string  `json:"technique_type_id"`
	RestSeconds     *int     `json:"rest_seconds"`
	Notes           *string  `json:"notes"`
	ClearIntensity  bool     `json:"clear_intensity"`
	ClearTechnique  bool     `json:"clear_technique"`
}

type ReorderItem struct {
	ID            string `json:"id" binding:"required"`
	TrainingDayID string `json:"training_day_id" binding:"required"`
	OrderIndex    *int   `json:"order_index" binding:"required"`
}

type ReorderRequest struct {
	Exercises []ReorderItem `json:"exercises" binding:"required,min=1,dive"`
}

type SupersetRequest struct {
	PlannedExerciseIDs []string `json:"planned_exercise_ids" binding:"required,min=2"`
}

// --- Handler Methods for Planned Exercises ---

// AddExercise godoc
// @Summary Append a planned exercise to a training day
// @Tags Planned Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param dayId path string true "Training day ID"
// @Param exercise body AddPlannedExerciseRequest true "Programming"
// @Success 201 {object} domain.PlannedExercise
// @Failure 422 {object} ErrorResponse "Validation error"
// @Router /mesocycles/{id}/training-days/{dayId}/exercises [post]
func (h *MesocycleHandler) AddExercise(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	dayID, ok := idParam(c, "dayId")
	if !ok {
		return
	}
	var req AddPlannedExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exerciseID, ok := parseObjectID(c, "exercise_id", &req.ExerciseID)
	if !ok {
		return
	}
	in := service.PlannedExerciseInput{
		ExerciseID:     *exerciseID,
		Sets:           req.Sets,
		RepRange:       req.RepRange,
		IntensityValue: req.IntensityValue,
		RestSeconds:    req.RestSeconds,
		Notes:          req.Notes,
	}
	if in.IntensityTypeID, ok = parseObjectID(c, "intensity_type_id", req.IntensityTypeID); !ok {
		return
	}
	if in.TechniqueTypeID, ok = parseObjectID(c, "technique_type_id", req.TechniqueTypeID); !ok {
		return
	}

	pe, err := h.plannerService.AddExercise(c.Request.Context(), userID, mesocycleID, dayID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, pe)
}

// UpdatePlannedExercise godoc
// @Summary Edit the programming of a planned exercise
// @Tags Planned Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param peId path string true "Planned exercise ID"
// @Success 200 {object} domain.PlannedExercise
// @Router /mesocycles/{id}/planned-exercises/{peId} [patch]
func (h *MesocycleHandler) UpdatePlannedExercise(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	plannedID, ok := idParam(c, "peId")
	if !ok {
		return
	}
	var req UpdatePlannedExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.UpdatePlannedExerciseInput{
		Sets:           req.Sets,
		RepRange:       req.RepRange,
		IntensityValue: req.IntensityValue,
		RestSeconds:    req.RestSeconds,
		Notes:          req.Notes,
		ClearIntensity: req.ClearIntensity,
		ClearTechnique: req.ClearTechnique,
	}
	if in.ExerciseID, ok = parseObjectID(c, "exercise_id", req.ExerciseID); !ok {
		return
	}
	if in.IntensityTypeID, ok = parseObjectID(c, "intensity_type_id", req.IntensityTypeID); !ok {
		return
	}
	if in.TechniqueTypeID, ok = parseObjectID(c, "technique_type_id", req.TechniqueTypeID); !ok {
		return
	}

	pe, err := h.plannerService.UpdatePlannedExercise(c.Request.Context(), userID, mesocycleID, plannedID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pe)
}

// RemovePlannedExercise godoc
// @Summary Remove a planned exercise and close the gap in its day
// @Tags Planned Exercises
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param peId path string true "Planned exercise ID"
// @Success 204
// @Router /mesocycles/{id}/planned-exercises/{peId} [delete]
func (h *MesocycleHandler) RemovePlannedExercise(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	plannedID, ok := idParam(c, "peId")
	if !ok {
		return
	}
	if err := h.plannerService.RemovePlannedExercise(c.Request.Context(), userID, mesocycleID, plannedID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderExercises godoc
// @Summary Move planned exercises within or across training days
// @Tags Planned Exercises
// @Accept json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param request body ReorderRequest true "New positions"
// @Success 204
// @Failure 422 {object} ErrorResponse "Resulting order is not contiguous"
// @Router /mesocycles/{id}/reorder-exercises [post]
func (h *MesocycleHandler) ReorderExercises(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	assignments := make([]service.ReorderAssignment, 0, len(req.Exercises))
	for i := range req.Exercises {
		item := &req.Exercises[i]
		peID, ok := parseObjectID(c, "id", &item.ID)
		if !ok {
			return
		}
		dayID, ok := parseObjectID(c, "training_day_id", &item.TrainingDayID)
		if !ok {
			return
		}
		assignments = append(assignments, service.ReorderAssignment{
			PlannedExerciseID: *peID,
			TrainingDayID:     *dayID,
			OrderIndex:        *item.OrderIndex,
		})
	}

	if err := h.plannerService.ReorderExercises(c.Request.Context(), userID, mesocycleID, assignments); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSuperset godoc
// @Summary Group planned exercises of one day into a superset
// @Tags Planned Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param request body SupersetRequest true "Members"
// @Success 201 {object} map[string]string "superset_group_id"
// @Router /mesocycles/{id}/supersets [post]
func (h *MesocycleHandler) CreateSuperset(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	var req SupersetRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, ok := parseObjectIDs(c, "planned_exercise_ids", req.PlannedExerciseIDs)
	if !ok {
		return
	}
	groupID, err := h.plannerService.CreateSuperset(c.Request.Context(), userID, mesocycleID, ids)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"superset_group_id": groupID})
}

// ClearSuperset godoc
// @Summary Take a planned exercise out of its superset
// @Tags Planned Exercises
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param peId path string true "Planned exercise ID"
// @Success 204
// @Router /mesocycles/{id}/planned-exercises/{peId}/superset [delete]
func (h *MesocycleHandler) ClearSuperset(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	plannedID, ok := idParam(c, "peId")
	if !ok {
		return
	}
	if err := h.plannerService.ClearSuperset(c.Request.Context(), userID, mesocycleID, plannedID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlannedExerciseSummary godoc
// @Summary Compare a planned exercise with the sets logged against it
// @Tags Planned Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mesocycle ID"
// @Param peId path string true "Planned exercise ID"
// @Success 200 {object} service.PlannedExerciseSummary
// @Router /mesocycles/{id}/planned-exercises/{peId}/summary [get]
func (h *MesocycleHandler) PlannedExerciseSummary(c *gin.Context) {
	userID, mesocycleID, ok := h.scope(c)
	if !ok {
		return
	}
	plannedID, ok := idParam(c, "peId")
	if !ok {
		return
	}
	summary, err := h.performanceService.PlannedExerciseSummary(c.Request.Context(), userID, mesocycleID, plannedID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
