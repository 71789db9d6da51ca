package api

import (
	"net/http"

	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth        service.AuthService
	Catalog     service.CatalogService
	Exercise    service.ExerciseService
	Planner     service.PlannerService
	Workout     service.WorkoutService
	Metric      service.MetricService
	Performance service.PerformanceService
}

func SetupRoutes(router *gin.Engine, svc Services, log *logger.Logger, corsOrigins []string) {
	authHandler := NewAuthHandler(svc.Auth, log)
	catalogHandler := NewCatalogHandler(svc.Catalog, log)
	exerciseHandler := NewExerciseHandler(svc.Exercise, svc.Performance, log)
	mesocycleHandler := NewMesocycleHandler(svc.Planner, svc.Performance, log)
	workoutHandler := NewWorkoutHandler(svc.Workout, log)
	metricHandler := NewMetricHandler(svc.Metric, log)

	router.Use(RequestID(), RequestLogger(log), CORS(corsOrigins), gin.Recovery())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)
		protected.DELETE("/me", authHandler.DeleteAccount)
		protected.GET("/catalog", catalogHandler.GetCatalog)

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/video-upload-url", exerciseHandler.RequestVideoUploadURL)
			exerciseGroup.GET("/:id/stats", exerciseHandler.GetExerciseStats)
		}

		// --- Mesocycle Routes ---
		mesoGroup := protected.Group("/mesocycles")
		{
			mesoGroup.POST("", mesocycleHandler.CreateMesocycle)
			mesoGroup.GET("", mesocycleHandler.ListMesocycles)
			mesoGroup.GET("/:id", mesocycleHandler.GetMesocycle)
			mesoGroup.PATCH("/:id", mesocycleHandler.UpdateMesocycle)
			mesoGroup.DELETE("/:id", mesocycleHandler.DeleteMesocycle)

			mesoGroup.PATCH("/:id/weeks/:weekId", mesocycleHandler.UpdateWeek)
			mesoGroup.POST("/:id/weeks/:weekId/duplicate", mesocycleHandler.DuplicateWeek)

			mesoGroup.PATCH("/:id/training-days/:dayId", mesocycleHandler.UpdateTrainingDay)
			mesoGroup.PUT("/:id/training-days/:dayId/muscle-groups", mesocycleHandler.SetDayMuscleGroups)
			mesoGroup.POST("/:id/training-days/:dayId/second-session", mesocycleHandler.AddSecondSession)
			mesoGroup.DELETE("/:id/training-days/:dayId/second-session", mesocycleHandler.RemoveSecondSession)
			mesoGroup.POST("/:id/training-days/:dayId/exercises", mesocycleHandler.AddExercise)

			mesoGroup.PATCH("/:id/planned-exercises/:peId", mesocycleHandler.UpdatePlannedExercise)
			mesoGroup.DELETE("/:id/planned-exercises/:peId", mesocycleHandler.RemovePlannedExercise)
			mesoGroup.GET("/:id/planned-exercises/:peId/summary", mesocycleHandler.PlannedExerciseSummary)
			mesoGroup.DELETE("/:id/planned-exercises/:peId/superset", mesocycleHandler.ClearSuperset)
			mesoGroup.POST("/:id/supersets", mesocycleHandler.CreateSuperset)
			mesoGroup.POST("/:id/reorder-exercises", mesocycleHandler.ReorderExercises)
		}

		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.StartWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.POST("/:id/sets", workoutHandler.LogSet)
			workoutGroup.POST("/:id/complete", workoutHandler.CompleteWorkout)
		}

		// --- Daily Metric Routes ---
		metricGroup := protected.Group("/daily-metrics")
		{
			metricGroup.POST("", metricHandler.RecordMetric)
			metricGroup.GET("/dashboard", metricHandler.GetDashboard)
			metricGroup.GET("/rolling", metricHandler.GetRollingAverage)
			metricGroup.GET("/latest", metricHandler.GetLatest)
			metricGroup.PATCH("/:id", metricHandler.UpdateMetric)
			metricGroup.DELETE("/:id", metricHandler.DeleteMetric)
		}
	}
}
