package service

import (
	"context"
	"errors"
	"strings"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
	"alcyxob/strength-planner/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxExerciseNameLength = 255

// ExerciseInput carries the editable fields of an exercise.
type ExerciseInput struct {
	Name                    string
	PrimaryMuscleGroupID    primitive.ObjectID
	EquipmentID             *primitive.ObjectID // nil means bodyweight
	SecondaryMuscleGroupIDs []primitive.ObjectID
	IsCompound              bool
	IsActive                *bool // Update only; nil keeps the current value
	Notes                   string
}

// ExerciseDetails is an exercise plus a short-lived link to its demo video.
type ExerciseDetails struct {
	domain.Exercise
	VideoURL string `json:"video_url,omitempty"`
}

// VideoUpload tells the client where to PUT the video file.
type VideoUpload struct {
	UploadURL   string `json:"upload_url"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
}

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*ExerciseDetails, error)
	ListExercises(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	// DeleteExercise removes the exercise and every planned slot that uses it. Exercises with
	// logged sets cannot be deleted; deactivate them instead.
	DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error
	RequestVideoUploadURL(ctx context.Context, userID, exerciseID primitive.ObjectID, contentType string) (*VideoUpload, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo     repository.ExerciseRepository
	plannedRepo      repository.PlannedExerciseRepository
	performedSetRepo repository.PerformedSetRepository
	tx               repository.TxManager
	catalog          CatalogService
	files            storage.FileStorage // nil when video storage is disabled
	log              *logger.Logger
}

// NewExerciseService creates a new instance of exerciseService. files may be nil.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	plannedRepo repository.PlannedExerciseRepository,
	performedSetRepo repository.PerformedSetRepository,
	tx repository.TxManager,
	catalog CatalogService,
	files storage.FileStorage,
	log *logger.Logger,
) ExerciseService {
	return &exerciseService{
		exerciseRepo:     exerciseRepo,
		plannedRepo:      plannedRepo,
		performedSetRepo: performedSetRepo,
		tx:               tx,
		catalog:          catalog,
		files:            files,
		log:              log.With("service", "ExerciseService"),
	}
}

// validate checks the input against the catalog and builds the muscle-group join rows.
func (s *exerciseService) validate(ctx context.Context, in *ExerciseInput) ([]domain.ExerciseMuscleGroup, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name", "is required")
	}
	if len(in.Name) > maxExerciseNameLength {
		return nil, invalid("name", "must be at most %d characters", maxExerciseNameLength)
	}

	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := cat.MuscleGroup(in.PrimaryMuscleGroupID); !ok {
		return nil, invalid("primary_muscle_group_id", "unknown muscle group")
	}
	if in.EquipmentID != nil {
		if _, ok := cat.EquipmentByID(*in.EquipmentID); !ok {
			return nil, invalid("equipment_id", "unknown equipment")
		}
	}
	for _, id := range in.SecondaryMuscleGroupIDs {
		if _, ok := cat.MuscleGroup(id); !ok {
			return nil, invalid("secondary_muscle_group_ids", "unknown muscle group %s", id.Hex())
		}
	}

	links, err := domain.BuildMuscleGroupLinks(in.PrimaryMuscleGroupID, in.SecondaryMuscleGroupIDs)
	if err != nil {
		return nil, invalid("secondary_muscle_group_ids", "%s", err.Error())
	}
	return links, nil
}

// CreateExercise adds an exercise to the user's library.
func (s *exerciseService) CreateExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	// 1. Validate Input
	links, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	// 2. Build and save
	exercise := &domain.Exercise{
		UserID:               userID,
		Name:                 in.Name,
		PrimaryMuscleGroupID: in.PrimaryMuscleGroupID,
		EquipmentID:          in.EquipmentID,
		IsCompound:           in.IsCompound,
		IsActive:             true,
		Notes:                in.Notes,
		MuscleGroups:         links,
	}
	if in.IsActive != nil {
		exercise.IsActive = *in.IsActive
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, storageErr("create exercise", err)
	}
	s.log.Info("Exercise created", "user_id", userID.Hex(), "exercise_id", exerciseID.Hex())
	return s.exerciseRepo.GetByID(ctx, exerciseID) // Fetch again to get all fields
}

// getOwned loads an exercise and checks that userID owns it.
func (s *exerciseService) getOwned(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, lookupErr("exercise", err)
	}
	if exercise.UserID != userID {
		return nil, ErrAccessDenied
	}
	return exercise, nil
}

// GetExercise retrieves a single exercise, with a presigned video link when one exists.
func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*ExerciseDetails, error) {
	exercise, err := s.getOwned(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	details := &ExerciseDetails{Exercise: *exercise}
	if exercise.VideoKey != "" && s.files != nil {
		url, err := s.files.GeneratePresignedDownloadURL(ctx, exercise.VideoKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			// The exercise is still usable without its video.
			s.log.Warn("Failed to presign video URL", "exercise_id", exerciseID.Hex(), "error", err)
		} else {
			details.VideoURL = url
		}
	}
	return details, nil
}

// ListExercises retrieves the user's exercises matching filter.
func (s *exerciseService) ListExercises(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	switch filter.SortBy {
	case "", "name", "created_at":
	default:
		return nil, invalid("sort", "must be name or created_at")
	}
	exercises, err := s.exerciseRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, storageErr("list exercises", err)
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}

// UpdateExercise replaces the editable fields. An empty secondary list clears the
// secondary muscle groups.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.getOwned(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	links, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	exercise.Name = in.Name
	exercise.PrimaryMuscleGroupID = in.PrimaryMuscleGroupID
	exercise.EquipmentID = in.EquipmentID
	exercise.IsCompound = in.IsCompound
	exercise.Notes = in.Notes
	exercise.MuscleGroups = links
	if in.IsActive != nil {
		exercise.IsActive = *in.IsActive
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, storageErr("update exercise", err)
	}
	return exercise, nil
}

// DeleteExercise removes the exercise after detaching it from every plan.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	exercise, err := s.getOwned(ctx, userID, exerciseID)
	if err != nil {
		return err
	}

	logged, err := s.performedSetRepo.CountByExercise(ctx, exerciseID)
	if err != nil {
		return storageErr("count performed sets", err)
	}
	if logged > 0 {
		return conflict("exercise has %d logged sets; deactivate it instead", logged)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		planned, err := s.plannedRepo.ListByExercise(ctx, exerciseID)
		if err != nil {
			return err
		}
		// Highest index first per day, so each ShiftDown only touches rows not yet removed.
		sortByOrderDesc(planned)
		for _, pe := range planned {
			if err := s.plannedRepo.Delete(ctx, pe.ID); err != nil {
				return err
			}
			if err := s.plannedRepo.ShiftDown(ctx, pe.TrainingDayID, pe.OrderIndex); err != nil {
				return err
			}
		}
		return s.exerciseRepo.Delete(ctx, exerciseID, userID)
	})
	if err != nil {
		return storageErr("delete exercise", err)
	}

	if exercise.VideoKey != "" && s.files != nil {
		if err := s.files.DeleteObject(ctx, exercise.VideoKey); err != nil {
			s.log.Warn("Failed to delete exercise video", "key", exercise.VideoKey, "error", err)
		}
	}
	s.log.Info("Exercise deleted", "exercise_id", exerciseID.Hex())
	return nil
}

// RequestVideoUploadURL reserves an object key for a new demo video and returns a presigned PUT URL.
// The previous video, if any, is removed.
func (s *exerciseService) RequestVideoUploadURL(ctx context.Context, userID, exerciseID primitive.ObjectID, contentType string) (*VideoUpload, error) {
	if s.files == nil {
		return nil, ErrMediaUnavailable
	}
	exercise, err := s.getOwned(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	key, err := storage.ExerciseVideoKey(userID, exerciseID, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, invalid("content_type", "must be video/mp4, video/quicktime or video/webm")
		}
		return nil, err
	}
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, storageErr("presign upload", err)
	}

	previous := exercise.VideoKey
	exercise.VideoKey = key
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, storageErr("update exercise", err)
	}
	if previous != "" {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.log.Warn("Failed to delete previous video", "key", previous, "error", err)
		}
	}

	return &VideoUpload{UploadURL: url, ObjectKey: key, ContentType: contentType}, nil
}
