package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

type workoutExerciseRepository struct {
	db *gorm.DB
}

// NewWorkoutExerciseRepository creates a new GORM-backed repository for the
// ordered exercise entries of a workout.
func NewWorkoutExerciseRepository(db *gorm.DB) repository.WorkoutExerciseRepository {
	return &workoutExerciseRepository{db: db}
}

// ownedWorkout confirms the workout exists and belongs to ownerID. Child-row
// writes call this first so a guessed child id under someone else's workout
// behaves exactly like a missing row.
func ownedWorkout(tx *gorm.DB, workoutID, ownerID string) error {
	var n int64
	err := tx.Model(&domain.Workout{}).
		Where("id = ? AND owner_id = ?", workoutID, ownerID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutExerciseRepository) Attach(ctx context.Context, workoutID, exerciseID, ownerID string) (*domain.WorkoutExercise, error) {
	var entry *domain.WorkoutExercise
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedWorkout(tx, workoutID, ownerID); err != nil {
			return err
		}
		// Next zero-indexed position at the end of the workout.
		var next int
		row := tx.Model(&domain.WorkoutExercise{}).
			Where("workout_id = ?", workoutID).
			Select(`COALESCE(MAX("order"), -1) + 1`).
			Row()
		if err := row.Scan(&next); err != nil {
			return err
		}
		now := time.Now().UTC()
		entry = &domain.WorkoutExercise{
			ID:         uuid.NewString(),
			WorkoutID:  workoutID,
			ExerciseID: exerciseID,
			Order:      next,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			if isForeignKeyViolation(err) {
				// Exercise row vanished between the caller's check and ours.
				return repository.ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *workoutExerciseRepository) Detach(ctx context.Context, id, workoutID, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedWorkout(tx, workoutID, ownerID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND workout_id = ?", id, workoutID).
			Delete(&domain.WorkoutExercise{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		// Sets under the entry go with it via ON DELETE CASCADE.
		return nil
	})
}
