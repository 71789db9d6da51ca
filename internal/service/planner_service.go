// internal/service/planner_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session name suffixes used when a day is split in two.
const (
	sessionSeparator = " - "
	firstSessionTag  = " - AM"
	secondSessionTag = " - PM"
)

// Bounds for the week modifiers.
const maxModifier = 9.99

// --- Inputs ---

type CreateMesocycleInput struct {
	Name                string
	Description         string
	StartDate           time.Time
	DurationWeeks       int
	TrainingDaysPerWeek int
	Status              domain.MesocycleStatus // draft (default) or active
	Settings            map[string]interface{}
}

type UpdateMesocycleInput struct {
	Name        *string
	Description *string
	Status      *domain.MesocycleStatus
	Settings    map[string]interface{} // nil keeps the current settings
}

type UpdateWeekInput struct {
	WeekType          *domain.WeekType
	IntensityModifier *float64
	VolumeModifier    *float64
	Notes             *string
}

type UpdateTrainingDayInput struct {
	Name      *string
	Notes     *string
	DayOfWeek *string // "" clears
}

type PlannedExerciseInput struct {
	ExerciseID      primitive.ObjectID
	Sets            int
	RepRange        string
	IntensityTypeID *primitive.ObjectID
	IntensityValue  *float64
	TechniqueTypeID *primitive.ObjectID
	RestSeconds     *int
	Notes           string
}

// UpdatePlannedExerciseInput updates only the non-nil fields. The position is never
// changed here; use ReorderExercises.
type UpdatePlannedExerciseInput struct {
	ExerciseID      *primitive.ObjectID
	Sets            *int
	RepRange        *string
	IntensityTypeID *primitive.ObjectID
	IntensityValue  *float64
	TechniqueTypeID *primitive.ObjectID
	RestSeconds     *int
	Notes           *string
	ClearIntensity  bool // Drops intensity type and value
	ClearTechnique  bool
}

// ReorderAssignment places one planned exercise at an index of a (possibly different) day.
type ReorderAssignment struct {
	PlannedExerciseID primitive.ObjectID
	TrainingDayID     primitive.ObjectID
	OrderIndex        int
}

// MesocycleSummary is a list entry with the derived dates.
type MesocycleSummary struct {
	domain.Mesocycle
	EndDate     string `json:"end_date"`
	CurrentWeek *int   `json:"current_week,omitempty"` // Only while active
}

// --- Service Interface ---
type PlannerService interface {
	// Mesocycles
	CreateMesocycle(ctx context.Context, userID primitive.ObjectID, in CreateMesocycleInput) (*domain.Mesocycle, error)
	ListMesocycles(ctx context.Context, userID primitive.ObjectID) ([]MesocycleSummary, error)
	GetMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID) (*MesocycleView, error)
	UpdateMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID, in UpdateMesocycleInput) (*domain.Mesocycle, error)
	DeleteMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID) error

	// Weeks and days
	UpdateWeek(ctx context.Context, userID, mesocycleID, weekID primitive.ObjectID, in UpdateWeekInput) (*domain.MesocycleWeek, error)
	UpdateTrainingDay(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID, in UpdateTrainingDayInput) (*domain.TrainingDay, error)
	SetDayMuscleGroups(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID, muscleGroupIDs []primitive.ObjectID) (*domain.TrainingDay, error)
	AddSecondSession(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID) (*domain.TrainingDay, error)
	RemoveSecondSession(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID) error
	DuplicateWeek(ctx context.Context, userID, mesocycleID, sourceWeekID primitive.ObjectID, targetWeekNumber int) error

	// Planned exercises
	GetPlannedExercise(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) (*domain.PlannedExercise, error)
	AddExercise(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID, in PlannedExerciseInput) (*domain.PlannedExercise, error)
	UpdatePlannedExercise(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID, in UpdatePlannedExerciseInput) (*domain.PlannedExercise, error)
	RemovePlannedExercise(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) error
	ReorderExercises(ctx context.Context, userID, mesocycleID primitive.ObjectID, assignments []ReorderAssignment) error
	CreateSuperset(ctx context.Context, userID, mesocycleID primitive.ObjectID, plannedIDs []primitive.ObjectID) (string, error)
	ClearSuperset(ctx context.Context, userID, mesocycleID, plannedID primitive.ObjectID) error
}

// --- Service Implementation ---

// plannerService implements the PlannerService interface. It holds no state between calls.
type plannerService struct {
	mesocycleRepo repository.MesocycleRepository
	weekRepo      repository.WeekRepository
	dayRepo       repository.TrainingDayRepository
	plannedRepo   repository.PlannedExerciseRepository
	exerciseRepo  repository.ExerciseRepository
	tx            repository.TxManager
	catalog       CatalogService
	log           *logger.Logger
	now           func() time.Time
}

// NewPlannerService creates a new instance of plannerService.
func NewPlannerService(
	mesocycleRepo repository.MesocycleRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.TrainingDayRepository,
	plannedRepo repository.PlannedExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	tx repository.TxManager,
	catalog CatalogService,
	log *logger.Logger,
) PlannerService {
	return &plannerService{
		mesocycleRepo: mesocycleRepo,
		weekRepo:      weekRepo,
		dayRepo:       dayRepo,
		plannedRepo:   plannedRepo,
		exerciseRepo:  exerciseRepo,
		tx:            tx,
		catalog:       catalog,
		log:           log.With("service", "PlannerService"),
		now:           time.Now,
	}
}

// === Mesocycles ===

// CreateMesocycle stores the mesocycle together with its full week/day skeleton.
// Nothing is persisted unless every row is.
func (s *plannerService) CreateMesocycle(ctx context.Context, userID primitive.ObjectID, in CreateMesocycleInput) (*domain.Mesocycle, error) {
	// 1. Validate Input
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if in.StartDate.IsZero() {
		return nil, invalid("start_date", "is required")
	}
	if in.DurationWeeks < domain.MinDurationWeeks || in.DurationWeeks > domain.MaxDurationWeeks {
		return nil, invalid("duration_weeks", "must be between %d and %d", domain.MinDurationWeeks, domain.MaxDurationWeeks)
	}
	if in.TrainingDaysPerWeek < domain.MinDaysPerWeek || in.TrainingDaysPerWeek > domain.MaxDaysPerWeek {
		return nil, invalid("training_days_per_week", "must be between %d and %d", domain.MinDaysPerWeek, domain.MaxDaysPerWeek)
	}
	status := in.Status
	if status == "" {
		status = domain.MesocycleDraft
	}
	if status != domain.MesocycleDraft && status != domain.MesocycleActive {
		return nil, invalid("status", "must be draft or active")
	}
	settings := in.Settings
	if settings == nil {
		settings = map[string]interface{}{}
	}

	mesocycle := &domain.Mesocycle{
		UserID:              userID,
		Name:                name,
		Description:         in.Description,
		StartDate:           domain.TruncateToDate(in.StartDate),
		DurationWeeks:       in.DurationWeeks,
		TrainingDaysPerWeek: in.TrainingDaysPerWeek,
		Status:              status,
		Settings:            settings,
	}

	// 2. Create mesocycle, weeks and days atomically
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.mesocycleRepo.Create(ctx, mesocycle); err != nil {
			return err
		}

		weeks := make([]*domain.MesocycleWeek, 0, in.DurationWeeks)
		for n := 1; n <= in.DurationWeeks; n++ {
			weeks = append(weeks, &domain.MesocycleWeek{
				MesocycleID:       mesocycle.ID,
				WeekNumber:        n,
				WeekType:          domain.WeekNormal,
				IntensityModifier: 1.0,
				VolumeModifier:    1.0,
			})
		}
		if err := s.weekRepo.CreateMany(ctx, weeks); err != nil {
			return err
		}

		days := make([]*domain.TrainingDay, 0, in.DurationWeeks*in.TrainingDaysPerWeek)
		for _, w := range weeks {
			for d := 1; d <= in.TrainingDaysPerWeek; d++ {
				days = append(days, &domain.TrainingDay{
					MesocycleWeekID: w.ID,
					DayNumber:       d,
					Name:            fmt.Sprintf("Day %d", d),
					OrderIndex:      float64(d - 1),
					MuscleGroups:    []domain.TrainingDayMuscleGroup{},
				})
			}
		}
		return s.dayRepo.CreateMany(ctx, days)
	})
	if err != nil {
		return nil, storageErr("create mesocycle", err)
	}

	s.log.Info("Mesocycle created",
		"user_id", userID.Hex(), "mesocycle_id", mesocycle.ID.Hex(),
		"weeks", in.DurationWeeks, "days_per_week", in.TrainingDaysPerWeek)
	return mesocycle, nil
}

func (s *plannerService) summarize(m domain.Mesocycle) MesocycleSummary {
	summary := MesocycleSummary{Mesocycle: m, EndDate: m.EndDate().Format(domain.DateLayout)}
	if m.Status == domain.MesocycleActive {
		week := m.CurrentWeek(s.now())
		summary.CurrentWeek = &week
	}
	return summary
}

// ListMesocycles returns the user's mesocycles, newest first.
func (s *plannerService) ListMesocycles(ctx context.Context, userID primitive.ObjectID) ([]MesocycleSummary, error) {
	mesocycles, err := s.mesocycleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list mesocycles", err)
	}
	summaries := make([]MesocycleSummary, 0, len(mesocycles))
	for _, m := range mesocycles {
		summaries = append(summaries, s.summarize(m))
	}
	return summaries, nil
}

// UpdateMesocycle edits name, description, status and settings. Duration and frequency are
// fixed once the skeleton exists.
func (s *plannerService) UpdateMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID, in UpdateMesocycleInput) (*domain.Mesocycle, error) {
	mesocycle, err := s.ownedMesocycle(ctx, userID, mesocycleID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "cannot be empty")
		}
		mesocycle.Name = name
	}
	if in.Description != nil {
		mesocycle.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalid("status", "must be one of draft, active, completed, archived")
		}
		mesocycle.Status = *in.Status
	}
	if in.Settings != nil {
		mesocycle.Settings = in.Settings
	}

	if err := s.mesocycleRepo.Update(ctx, mesocycle); err != nil {
		return nil, storageErr("update mesocycle", err)
	}
	return mesocycle, nil
}

// DeleteMesocycle removes the mesocycle and everything under it.
func (s *plannerService) DeleteMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID) error {
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return err
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return deleteMesocycleTree(ctx, s.mesocycleRepo, s.weekRepo, s.dayRepo, s.plannedRepo, mesocycleID)
	})
	if err != nil {
		return storageErr("delete mesocycle", err)
	}
	s.log.Info("Mesocycle deleted", "mesocycle_id", mesocycleID.Hex())
	return nil
}

// === Ownership helpers ===

func (s *plannerService) ownedMesocycle(ctx context.Context, userID, mesocycleID primitive.ObjectID) (*domain.Mesocycle, error) {
	mesocycle, err := s.mesocycleRepo.GetByID(ctx, mesocycleID)
	if err != nil {
		return nil, lookupErr("mesocycle", err)
	}
	if mesocycle.UserID != userID {
		return nil, ErrAccessDenied
	}
	return mesocycle, nil
}

// weekIn loads a week and checks that it belongs to the mesocycle.
func (s *plannerService) weekIn(ctx context.Context, mesocycleID, weekID primitive.ObjectID) (*domain.MesocycleWeek, error) {
	week, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return nil, lookupErr("week", err)
	}
	if week.MesocycleID != mesocycleID {
		return nil, notFound("week")
	}
	return week, nil
}

// dayIn loads a training day and checks that its week belongs to the mesocycle.
func (s *plannerService) dayIn(ctx context.Context, mesocycleID, dayID primitive.ObjectID) (*domain.TrainingDay, error) {
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		return nil, lookupErr("training day", err)
	}
	if _, err := s.weekIn(ctx, mesocycleID, day.MesocycleWeekID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("training day")
		}
		return nil, err
	}
	return day, nil
}

// ownedDay combines the mesocycle ownership check with dayIn.
func (s *plannerService) ownedDay(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID) (*domain.TrainingDay, error) {
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return nil, err
	}
	return s.dayIn(ctx, mesocycleID, dayID)
}

// === Weeks and days ===

func (s *plannerService) UpdateWeek(ctx context.Context, userID, mesocycleID, weekID primitive.ObjectID, in UpdateWeekInput) (*domain.MesocycleWeek, error) {
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return nil, err
	}
	week, err := s.weekIn(ctx, mesocycleID, weekID)
	if err != nil {
		return nil, err
	}

	if in.WeekType != nil {
		if !in.WeekType.Valid() {
			return nil, invalid("week_type", "must be one of normal, deload, testing")
		}
		week.WeekType = *in.WeekType
	}
	if in.IntensityModifier != nil {
		if *in.IntensityModifier <= 0 || *in.IntensityModifier > maxModifier {
			return nil, invalid("intensity_modifier", "must be greater than 0 and at most %.2f", maxModifier)
		}
		week.IntensityModifier = *in.IntensityModifier
	}
	if in.VolumeModifier != nil {
		if *in.VolumeModifier <= 0 || *in.VolumeModifier > maxModifier {
			return nil, invalid("volume_modifier", "must be greater than 0 and at most %.2f", maxModifier)
		}
		week.VolumeModifier = *in.VolumeModifier
	}
	if in.Notes != nil {
		week.Notes = *in.Notes
	}

	if err := s.weekRepo.Update(ctx, week); err != nil {
		return nil, storageErr("update week", err)
	}
	return week, nil
}

func (s *plannerService) UpdateTrainingDay(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID, in UpdateTrainingDayInput) (*domain.TrainingDay, error) {
	day, err := s.ownedDay(ctx, userID, mesocycleID, dayID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "cannot be empty")
		}
		day.Name = name
	}
	if in.Notes != nil {
		day.Notes = *in.Notes
	}
	if in.DayOfWeek != nil {
		dow := strings.ToLower(strings.TrimSpace(*in.DayOfWeek))
		if dow != "" && !domain.ValidWeekday(dow) {
			return nil, invalid("day_of_week", "must be a weekday name")
		}
		day.DayOfWeek = dow
	}

	if err := s.dayRepo.Update(ctx, day); err != nil {
		return nil, storageErr("update training day", err)
	}
	return day, nil
}

// SetDayMuscleGroups replaces the day's focus list, keeping the given order.
func (s *plannerService) SetDayMuscleGroups(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID, muscleGroupIDs []primitive.ObjectID) (*domain.TrainingDay, error) {
	day, err := s.ownedDay(ctx, userID, mesocycleID, dayID)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.TrainingDayMuscleGroup, 0, len(muscleGroupIDs))
	seen := make(map[primitive.ObjectID]bool, len(muscleGroupIDs))
	for i, id := range muscleGroupIDs {
		if _, ok := cat.MuscleGroup(id); !ok {
			return nil, invalid("muscle_group_ids", "unknown muscle group %s", id.Hex())
		}
		if seen[id] {
			return nil, invalid("muscle_group_ids", "muscle group %s listed twice", id.Hex())
		}
		seen[id] = true
		groups = append(groups, domain.TrainingDayMuscleGroup{MuscleGroupID: id, OrderIndex: i})
	}
	day.MuscleGroups = groups

	if err := s.dayRepo.Update(ctx, day); err != nil {
		return nil, storageErr("update training day", err)
	}
	return day, nil
}

// AddSecondSession splits a day in two. The new session sits right after its parent
// (order_index + 0.5) and is named "<name> - PM"; a parent without a session suffix is
// renamed "<name> - AM".
func (s *plannerService) AddSecondSession(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID) (*domain.TrainingDay, error) {
	parent, err := s.ownedDay(ctx, userID, mesocycleID, dayID)
	if err != nil {
		return nil, err
	}
	if parent.IsSecondSession {
		return nil, invalid("training_day_id", "a second session cannot be split again")
	}

	// Names are fixed up front: the transaction callback may run more than once.
	sessionName := parent.Name + secondSessionTag
	parentName := parent.Name
	if !strings.Contains(parentName, sessionSeparator) {
		parentName += firstSessionTag
	}

	var session *domain.TrainingDay
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.dayRepo.GetSecondSession(ctx, parent.ID)
		if err == nil {
			return conflict("training day already has a second session")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		parentID := parent.ID
		session = &domain.TrainingDay{
			MesocycleWeekID:     parent.MesocycleWeekID,
			DayNumber:           parent.DayNumber,
			Name:                sessionName,
			OrderIndex:          parent.OrderIndex + domain.SecondSessionStep,
			DayOfWeek:           parent.DayOfWeek,
			IsSecondSession:     true,
			ParentTrainingDayID: &parentID,
			MuscleGroups:        []domain.TrainingDayMuscleGroup{},
		}
		if _, err := s.dayRepo.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return conflict("training day already has a second session")
			}
			return err
		}

		if parentName == parent.Name {
			return nil
		}
		renamed := *parent
		renamed.Name = parentName
		return s.dayRepo.Update(ctx, &renamed)
	})
	if err != nil {
		return nil, storageErr("add second session", err)
	}

	s.log.Info("Second session added", "parent_id", parent.ID.Hex(), "session_id", session.ID.Hex())
	return session, nil
}

// RemoveSecondSession deletes a second session with its planned exercises and drops the
// " - AM" suffix from the parent.
func (s *plannerService) RemoveSecondSession(ctx context.Context, userID, mesocycleID, dayID primitive.ObjectID) error {
	session, err := s.ownedDay(ctx, userID, mesocycleID, dayID)
	if err != nil {
		return err
	}
	if !session.IsSecondSession {
		return invalid("training_day_id", "training day is not a second session")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.plannedRepo.DeleteByDays(ctx, []primitive.ObjectID{session.ID}); err != nil {
			return err
		}
		if err := s.dayRepo.Delete(ctx, session.ID); err != nil {
			return err
		}

		if session.ParentTrainingDayID == nil {
			return nil
		}
		parent, err := s.dayRepo.GetByID(ctx, *session.ParentTrainingDayID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.HasSuffix(parent.Name, firstSessionTag) {
			parent.Name = strings.TrimSuffix(parent.Name, firstSessionTag)
			return s.dayRepo.Update(ctx, parent)
		}
		return nil
	})
	if err != nil {
		return storageErr("remove second session", err)
	}

	s.log.Info("Second session removed", "session_id", session.ID.Hex())
	return nil
}

// DuplicateWeek copies the programming of the source week onto the week numbered
// targetWeekNumber. Days are matched on (day_number, is_second_session); target days
// without a source counterpart stay untouched and unmatched source days are skipped.
func (s *plannerService) DuplicateWeek(ctx context.Context, userID, mesocycleID, sourceWeekID primitive.ObjectID, targetWeekNumber int) error {
	if _, err := s.ownedMesocycle(ctx, userID, mesocycleID); err != nil {
		return err
	}
	source, err := s.weekIn(ctx, mesocycleID, sourceWeekID)
	if err != nil {
		return err
	}
	target, err := s.weekRepo.GetByNumber(ctx, mesocycleID, targetWeekNumber)
	if err != nil {
		return lookupErr("target week", err)
	}

	copied := 0
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sourceDays, err := s.dayRepo.ListByWeeks(ctx, []primitive.ObjectID{source.ID})
		if err != nil {
			return err
		}
		for i := range sourceDays {
			src := &sourceDays[i]
			dst, err := s.dayRepo.FindByShape(ctx, target.ID, src.DayNumber, src.IsSecondSession)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			planned, err := s.plannedRepo.ListByDays(ctx, []primitive.ObjectID{src.ID})
			if err != nil {
				return err
			}
			if err := s.plannedRepo.DeleteByDays(ctx, []primitive.ObjectID{dst.ID}); err != nil {
				return err
			}
			for j := range planned {
				if _, err := s.plannedRepo.Create(ctx, planned[j].CopyTo(dst.ID)); err != nil {
					return err
				}
			}

			dst.Name = src.Name
			dst.Notes = src.Notes
			if err := s.dayRepo.Update(ctx, dst); err != nil {
				return err
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return storageErr("duplicate week", err)
	}

	s.log.Info("Week duplicated",
		"mesocycle_id", mesocycleID.Hex(), "source_week", source.WeekNumber,
		"target_week", targetWeekNumber, "days", copied)
	return nil
}
