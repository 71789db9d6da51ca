package api

import (
	"net/http"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
	log            *logger.Logger
}

func NewWorkoutHandler(workoutService service.WorkoutService, log *logger.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, log: log}
}

// --- DTOs for Workouts ---

type StartWorkoutRequest struct {
	TrainingDayID *string            `json:"training_day_id"`
	Type          domain.WorkoutType `json:"type"`
	Notes         string             `json:"notes"`
}

type LogSetRequest struct {
	ExerciseID        string   `json:"exercise_id" binding:"required"`
	PlannedExerciseID *string  `json:"planned_exercise_id"`
	SetNumber         int      `json:"set_number"`
	Reps              int      `json:"reps"`
	Weight            float64  `json:"weight"`
	WeightUnit        string   `json:"weight_unit"`
	RPE               *float64 `json:"rpe"`
	RIR               *int     `json:"rir"`
	SetTypeID         *string  `json:"set_type_id"`
	SupersetGroupID   string   `json:"superset_group_id"`
	RestTakenSeconds  *int     `json:"rest_taken_seconds"`
	IsWarmup          bool     `json:"is_warmup"`
	IsFailure         bool     `json:"is_failure"`
	Notes             string   `json:"notes"`
}

type CompleteWorkoutRequest struct {
	SessionRPE *float64 `json:"session_rpe"`
	Mood       string   `json:"mood"`
	Notes      *string  `json:"notes"`
}

// --- Handler Methods for Workouts ---

// StartWorkout godoc
// @Summary Start a workout, optionally from a planned training day
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body StartWorkoutRequest true "Workout"
// @Success 201 {object} domain.Workout
// @Router /workouts [post]
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req StartWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	dayID, ok := parseObjectID(c, "training_day_id", req.TrainingDayID)
	if !ok {
		return
	}

	workout, err := h.workoutService.StartWorkout(c.Request.Context(), userID, service.StartWorkoutInput{
		TrainingDayID: dayID,
		Type:          req.Type,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary List the user's workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary Get a workout with its logged sets
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} service.WorkoutDetails
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := idParam(c, "id")
	if !ok {
		return
	}
	details, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// LogSet godoc
// @Summary Log a performed set
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param set body LogSetRequest true "Set"
// @Success 201 {object} domain.PerformedSet
// @Failure 409 {object} ErrorResponse "Workout already completed"
// @Router /workouts/{id}/sets [post]
func (h *WorkoutHandler) LogSet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req LogSetRequest
	if !bindJSON(c, &req) {
		return
	}

	exerciseID, ok := parseObjectID(c, "exercise_id", &req.ExerciseID)
	if !ok {
		return
	}
	in := service.LogSetInput{
		ExerciseID:       *exerciseID,
		SetNumber:        req.SetNumber,
		Reps:             req.Reps,
		Weight:           req.Weight,
		WeightUnit:       req.WeightUnit,
		RPE:              req.RPE,
		RIR:              req.RIR,
		SupersetGroupID:  req.SupersetGroupID,
		RestTakenSeconds: req.RestTakenSeconds,
		IsWarmup:         req.IsWarmup,
		IsFailure:        req.IsFailure,
		Notes:            req.Notes,
	}
	if in.PlannedExerciseID, ok = parseObjectID(c, "planned_exercise_id", req.PlannedExerciseID); !ok {
		return
	}
	if in.SetTypeID, ok = parseObjectID(c, "set_type_id", req.SetTypeID); !ok {
		return
	}

	set, err := h.workoutService.LogSet(c.Request.Context(), userID, workoutID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// CompleteWorkout godoc
// @Summary Mark a workout as completed
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param request body CompleteWorkoutRequest false "Session feedback"
// @Success 200 {object} domain.Workout
// @Router /workouts/{id}/complete [post]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CompleteWorkoutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.CompleteWorkout(c.Request.Context(), userID, workoutID, service.CompleteWorkoutInput{
		SessionRPE: req.SessionRPE,
		Mood:       req.Mood,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}
