package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/strength-planner/internal/api"
	"alcyxob/strength-planner/internal/config"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"
	"alcyxob/strength-planner/internal/storage"
	"alcyxob/strength-planner/internal/store"

	"github.com/gin-gonic/gin"
)

// @title Strength Planner API
// @version 1.0
// @description API for planning mesocycles, logging workouts and tracking daily metrics.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// The logger is not configured yet.
		os.Stderr.WriteString("FATAL: Could not load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Mode: cfg.Log.Mode, Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		os.Stderr.WriteString("FATAL: Could not build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Starting Strength Planner server...", "driver", cfg.Database.Driver)

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	st, err := store.Open(ctx, cfg.Database, log)
	cancel()
	if err != nil {
		log.Fatal("Could not open database", "error", err)
	}
	defer func() {
		log.Info("Closing database...")
		if err := st.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	// --- Reference Data ---
	catalogService := service.NewCatalogService(st.Catalog, log)
	if cfg.Catalog.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		added, err := catalogService.Seed(ctx)
		cancel()
		if err != nil {
			log.Fatal("Could not seed catalog", "error", err)
		}
		log.Info("Catalog ready", "added", added)
	}

	// --- Initialize Storage ---
	files, err := storage.NewS3Storage(context.Background(), cfg.S3, log)
	if errors.Is(err, storage.ErrStorageDisabled) {
		log.Warn("S3 bucket not configured, exercise videos are disabled")
		files = nil
	} else if err != nil {
		log.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// --- Initialize Services ---
	plannerService := service.NewPlannerService(st.Mesocycles, st.Weeks, st.TrainingDays, st.PlannedExercises,
		st.Exercises, st.Tx, catalogService, log)
	svc := api.Services{
		Auth: service.NewAuthService(st.Users, service.NewUserDataPurger(st, log),
			cfg.JWT.Secret, cfg.JWT.Expiration, log),
		Catalog: catalogService,
		Exercise: service.NewExerciseService(st.Exercises, st.PlannedExercises, st.PerformedSets, st.Tx,
			catalogService, files, log),
		Planner: plannerService,
		Workout: service.NewWorkoutService(st.Workouts, st.PerformedSets, st.Exercises, st.PlannedExercises,
			st.TrainingDays, st.Weeks, st.Mesocycles, catalogService, log),
		Metric:      service.NewMetricService(st.DailyMetrics, log),
		Performance: service.NewPerformanceService(st.PerformedSets, st.Exercises, plannerService, log),
	}

	// --- Initialize Gin Engine ---
	if cfg.Log.Mode == "production" || cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.SetupRoutes(router, svc, log, cfg.CORS.AllowedOrigins)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server exiting.")
}
