package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
	"github.com/G3Ram/liftingdiary/internal/revalidate"
)

// CreateWorkoutInput carries the caller-supplied fields for a new session.
// Everything else (id, owner, completion, timestamps) is assigned server-side.
type CreateWorkoutInput struct {
	Name      *string
	StartedAt time.Time
}

// AddSetInput carries the optional initial values for a new set.
type AddSetInput struct {
	Reps   *int
	Weight *float64
}

// WorkoutService is the single gateway for reading and mutating diary data.
// Every method takes the authenticated owner id as its first argument after
// ctx and never trusts ids from the request body beyond syntax.
type WorkoutService interface {
	ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error)
	ListWorkoutsOnDate(ctx context.Context, ownerID string, day time.Time) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, ownerID, workoutID string) (*domain.Workout, error)
	CreateWorkout(ctx context.Context, ownerID string, input CreateWorkoutInput) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, ownerID, workoutID string, patch domain.WorkoutPatch) (*domain.Workout, error)
	AttachExercise(ctx context.Context, ownerID, workoutID, exerciseID string) (*domain.WorkoutExercise, error)
	DetachExercise(ctx context.Context, ownerID, workoutID, entryID string) error
	AddSet(ctx context.Context, ownerID, workoutID, entryID string, input AddSetInput) (*domain.Set, error)
	UpdateSet(ctx context.Context, ownerID, workoutID, setID string, patch domain.SetPatch) (*domain.Set, error)
	RemoveSet(ctx context.Context, ownerID, workoutID, setID string) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	entryRepo    repository.WorkoutExerciseRepository
	setRepo      repository.SetRepository
	signaler     revalidate.Signaler
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	entryRepo repository.WorkoutExerciseRepository,
	setRepo repository.SetRepository,
	signaler revalidate.Signaler,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		entryRepo:    entryRepo,
		setRepo:      setRepo,
		signaler:     signaler,
	}
}

// signalStale tells the rendering layer the dashboard and this workout's
// page are out of date. Failures are logged, never propagated; the mutation
// already committed.
func (s *workoutService) signalStale(ctx context.Context, workoutID string) {
	if err := s.signaler.Invalidate(ctx, revalidate.WorkoutPaths(workoutID)...); err != nil {
		log.Warn().Err(err).Str("workout_id", workoutID).Msg("revalidation signal failed")
	}
}

// ListWorkouts returns the owner's complete history, newest first.
func (s *workoutService) ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	return s.workoutRepo.ListByOwner(ctx, ownerID)
}

// ListWorkoutsOnDate returns the sessions started on one calendar day,
// interpreted in day's location, newest first.
func (s *workoutService) ListWorkoutsOnDate(ctx context.Context, ownerID string, day time.Time) ([]domain.Workout, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	return s.workoutRepo.ListByOwnerOnDate(ctx, ownerID, day)
}

// GetWorkout returns one owned workout with its full exercise and set tree.
func (s *workoutService) GetWorkout(ctx context.Context, ownerID, workoutID string) (*domain.Workout, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	workout, err := s.workoutRepo.GetByIDAndOwner(ctx, workoutID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// CreateWorkout validates the input and inserts a new in-progress session.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID string, input CreateWorkoutInput) (*domain.Workout, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	fields := FieldErrors{}
	if input.Name != nil {
		checkName(fields, "name", *input.Name)
	}
	if input.StartedAt.IsZero() {
		fields["startedAt"] = "must be a valid timestamp"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	workout := &domain.Workout{
		OwnerID:   ownerID,
		Name:      input.Name,
		StartedAt: input.StartedAt,
	}
	created, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	s.signalStale(ctx, created.ID)
	return created, nil
}

// UpdateWorkout applies a tri-state patch to an owned workout. Absent fields
// keep their value, null clears nullable ones, and an empty patch still
// refreshes updatedAt. Clearing completedAt reopens the session on purpose;
// no ordering between startedAt and completedAt is enforced.
func (s *workoutService) UpdateWorkout(ctx context.Context, ownerID, workoutID string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "workoutId", workoutID)
	if patch.Name.Set && patch.Name.Valid {
		checkName(fields, "name", patch.Name.Value)
	}
	if patch.StartedAt.Set {
		if !patch.StartedAt.Valid {
			fields["startedAt"] = "cannot be null"
		} else if patch.StartedAt.Value.IsZero() {
			fields["startedAt"] = "must be a valid timestamp"
		}
	}
	if patch.CompletedAt.Set && patch.CompletedAt.Valid && patch.CompletedAt.Value.IsZero() {
		fields["completedAt"] = "must be a valid timestamp"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	updated, err := s.workoutRepo.UpdatePartial(ctx, workoutID, ownerID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	s.signalStale(ctx, updated.ID)
	return updated, nil
}

// AttachExercise appends a catalog exercise to the end of an owned workout.
// The exercise is checked through its own repository first so a missing
// exercise and a missing workout report as themselves.
func (s *workoutService) AttachExercise(ctx context.Context, ownerID, workoutID, exerciseID string) (*domain.WorkoutExercise, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "workoutId", workoutID)
	checkID(fields, "exerciseId", exerciseID)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	exercise, err := s.exerciseRepo.GetByIDAndOwner(ctx, exerciseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	entry, err := s.entryRepo.Attach(ctx, workoutID, exerciseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	entry.Exercise = *exercise
	s.signalStale(ctx, workoutID)
	return entry, nil
}

// DetachExercise removes an entry and its sets from an owned workout.
func (s *workoutService) DetachExercise(ctx context.Context, ownerID, workoutID, entryID string) error {
	if ownerID == "" {
		return ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "workoutId", workoutID)
	checkID(fields, "entryId", entryID)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := s.entryRepo.Detach(ctx, entryID, workoutID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	s.signalStale(ctx, workoutID)
	return nil
}

// AddSet appends a set to an entry of an owned workout. Reps and weight may
// arrive empty and be filled in later as the lifter works.
func (s *workoutService) AddSet(ctx context.Context, ownerID, workoutID, entryID string, input AddSetInput) (*domain.Set, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "workoutId", workoutID)
	checkID(fields, "entryId", entryID)
	if input.Reps != nil {
		checkReps(fields, *input.Reps)
	}
	if input.Weight != nil {
		checkWeight(fields, *input.Weight)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	set, err := s.setRepo.Add(ctx, entryID, workoutID, ownerID, input.Reps, input.Weight)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	s.signalStale(ctx, workoutID)
	return set, nil
}

// UpdateSet applies a tri-state patch to one set of an owned workout.
func (s *workoutService) UpdateSet(ctx context.Context, ownerID, workoutID, setID string, patch domain.SetPatch) (*domain.Set, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "workoutId", workoutID)
	checkID(fields, "setId", setID)
	if patch.Reps.Set && patch.Reps.Valid {
		checkReps(fields, patch.Reps.Value)
	}
	if patch.Weight.Set && patch.Weight.Valid {
		checkWeight(fields, patch.Weight.Value)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	set, err := s.setRepo.UpdatePartial(ctx, setID, workoutID, ownerID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	s.signalStale(ctx, workoutID)
	return set, nil
}

// RemoveSet deletes one set of an owned workout. Numbers of later sets keep
// their values; history records what happened, it is not renumbered.
func (s *workoutService) RemoveSet(ctx context.Context, ownerID, workoutID, setID string) error {
	if ownerID == "" {
		return ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "workoutId", workoutID)
	checkID(fields, "setId", setID)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := s.setRepo.Remove(ctx, setID, workoutID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSetNotFound
		}
		return err
	}
	s.signalStale(ctx, workoutID)
	return nil
}
