package api

import (
	"net/http"
	"strconv"
	"strings"

	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler serves the exercise library and per-exercise statistics.
type ExerciseHandler struct {
	exerciseService    service.ExerciseService
	performanceService service.PerformanceService
	log                *logger.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, performanceService service.PerformanceService, log *logger.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, performanceService: performanceService, log: log}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest is the body of both create and update.
type ExerciseRequest struct {
	Name                    string   `json:"name" binding:"required,max=255"`
	PrimaryMuscleGroupID    string   `json:"primary_muscle_group_id" binding:"required"`
	EquipmentID             *string  `json:"equipment_id"` // null or omitted means bodyweight
	SecondaryMuscleGroupIDs []string `json:"secondary_muscle_group_ids"`
	IsCompound              bool     `json:"is_compound"`
	IsActive                *bool    `json:"is_active"`
	Notes                   string   `json:"notes"`
}

type VideoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// toInput converts the request, aborting the call on malformed ids.
func (r *ExerciseRequest) toInput(c *gin.Context) (service.ExerciseInput, bool) {
	in := service.ExerciseInput{
		Name:       r.Name,
		IsCompound: r.IsCompound,
		IsActive:   r.IsActive,
		Notes:      r.Notes,
	}
	primary, err := primitive.ObjectIDFromHex(r.PrimaryMuscleGroupID)
	if err != nil {
		abortWithFieldError(c, "primary_muscle_group_id", "primary_muscle_group_id: must be a valid id")
		return in, false
	}
	in.PrimaryMuscleGroupID = primary

	var ok bool
	if in.EquipmentID, ok = parseObjectID(c, "equipment_id", r.EquipmentID); !ok {
		return in, false
	}
	if in.SecondaryMuscleGroupIDs, ok = parseObjectIDs(c, "secondary_muscle_group_ids", r.SecondaryMuscleGroupIDs); !ok {
		return in, false
	}
	return in, true
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} domain.Exercise "Exercise created successfully"
// @Failure 422 {object} ErrorResponse "Validation error"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	in, ok := req.toInput(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises godoc
// @Summary List the user's exercises
// @Description Filters: search, muscle_group_id (primary or secondary), equipment_id ("bodyweight" for none),
// @Description active_only, sort (name|created_at) and direction (asc|desc).
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Exercise "List of exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	filter := repository.ExerciseFilter{
		Search: strings.TrimSpace(c.Query("search")),
		SortBy: c.DefaultQuery("sort", "name"),
	}
	if v := c.Query("muscle_group_id"); v != "" {
		id, ok := parseObjectID(c, "muscle_group_id", &v)
		if !ok {
			return
		}
		filter.MuscleGroupID = id
	}
	switch v := c.Query("equipment_id"); v {
	case "":
	case "bodyweight":
		filter.BodyweightOnly = true
	default:
		id, ok := parseObjectID(c, "equipment_id", &v)
		if !ok {
			return
		}
		filter.EquipmentID = id
	}
	if v := c.Query("active_only"); v != "" {
		activeOnly, err := strconv.ParseBool(v)
		if err != nil {
			abortWithFieldError(c, "active_only", "active_only: must be true or false")
			return
		}
		filter.ActiveOnly = activeOnly
	}
	switch c.DefaultQuery("direction", "asc") {
	case "asc":
	case "desc":
		filter.Descending = true
	default:
		abortWithFieldError(c, "direction", "direction: must be asc or desc")
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise godoc
// @Summary Get one exercise, with a temporary video link when it has one
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} service.ExerciseDetails
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	details, err := h.exerciseService.GetExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// UpdateExercise godoc
// @Summary Replace the editable fields of an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} domain.Exercise
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	in, ok := req.toInput(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise godoc
// @Summary Delete an exercise and its planned slots
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204
// @Failure 409 {object} ErrorResponse "Exercise has logged sets"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUploadURL godoc
// @Summary Get a presigned URL for uploading the exercise's demo video
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param request body VideoUploadRequest true "Video content type"
// @Success 200 {object} service.VideoUpload
// @Failure 503 {object} ErrorResponse "Video storage is not configured"
// @Router /exercises/{id}/video-upload-url [post]
func (h *ExerciseHandler) RequestVideoUploadURL(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req VideoUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.exerciseService.RequestVideoUploadURL(c.Request.Context(), userID, exerciseID, req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// GetExerciseStats godoc
// @Summary Aggregated performance of one exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} service.ExerciseStats
// @Router /exercises/{id}/stats [get]
func (h *ExerciseHandler) GetExerciseStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	stats, err := h.performanceService.ExerciseStats(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
