package repository

import (
	"context"
	"time"

	"github.com/G3Ram/liftingdiary/internal/domain"
)

// Error constants for the repository layer. ErrNotFound deliberately covers
// both "no such row" and "row owned by someone else": callers filter by id
// and owner together, so the two cases are indistinguishable here and stay
// indistinguishable all the way to the API.
var (
	ErrNotFound      = RepositoryError("not found")
	ErrExerciseInUse = RepositoryError("exercise is referenced by a workout")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Every read and write is scoped to an owner; there is no unscoped GetByID.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Workout, error)
	// ListByOwner returns the owner's full history, most recent startedAt first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Workout, error)
	// ListByOwnerOnDate restricts the history to one calendar day in day's location.
	ListByOwnerOnDate(ctx context.Context, ownerID string, day time.Time) ([]domain.Workout, error)
	// UpdatePartial applies the set fields of patch and returns the updated row.
	UpdatePartial(ctx context.Context, id, ownerID string, patch domain.WorkoutPatch) (*domain.Workout, error)
}

// ExerciseRepository defines the interface for interacting with the
// per-user exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Exercise, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Exercise, error)
	// Delete removes an unused catalog entry. Returns ErrExerciseInUse when a
	// workout still references it.
	Delete(ctx context.Context, id, ownerID string) error
}

// WorkoutExerciseRepository manages the ordered links between workouts and
// catalog exercises. Ownership is always established through the parent
// workout, never trusted from the link row alone.
type WorkoutExerciseRepository interface {
	// Attach appends exerciseID to the workout at the next free position.
	Attach(ctx context.Context, workoutID, exerciseID, ownerID string) (*domain.WorkoutExercise, error)
	// Detach removes entry id from the workout along with its sets.
	Detach(ctx context.Context, id, workoutID, ownerID string) error
}

// SetRepository manages the sets logged under a workout exercise entry. The
// workout id pins every lookup to one owned session.
type SetRepository interface {
	// Add appends a set with the next one-indexed set number.
	Add(ctx context.Context, workoutExerciseID, workoutID, ownerID string, reps *int, weight *float64) (*domain.Set, error)
	UpdatePartial(ctx context.Context, id, workoutID, ownerID string, patch domain.SetPatch) (*domain.Set, error)
	Remove(ctx context.Context, id, workoutID, ownerID string) error
}
