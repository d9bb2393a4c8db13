package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

type setRepository struct {
	db *gorm.DB
}

// NewSetRepository creates a new GORM-backed set repository.
func NewSetRepository(db *gorm.DB) repository.SetRepository {
	return &setRepository{db: db}
}

// entryScope narrows a set query to one workout's entries, which combined
// with ownedWorkout pins the set to a session the caller owns.
const entryScope = "id = ? AND workout_exercise_id IN (SELECT id FROM workout_exercises WHERE workout_id = ?)"

func (r *setRepository) Add(ctx context.Context, workoutExerciseID, workoutID, ownerID string, reps *int, weight *float64) (*domain.Set, error) {
	var set *domain.Set
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownedWorkout(tx, workoutID, ownerID); err != nil {
			return err
		}
		var n int64
		err := tx.Model(&domain.WorkoutExercise{}).
			Where("id = ? AND workout_id = ?", workoutExerciseID, workoutID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		// Set numbers are one-indexed per entry.
		var next int
		row := tx.Model(&domain.Set{}).
			Where("workout_exercise_id = ?", workoutExerciseID).
			Select("COALESCE(MAX(set_number), 0) + 1").
			Row()
		if err := row.Scan(&next); err != nil {
			return err
		}
		now := time.Now().UTC()
		set = &domain.Set{
			ID:                uuid.NewString(),
			WorkoutExerciseID: workoutExerciseID,
			SetNumber:         next,
			Reps:              reps,
			Weight:            weight,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return tx.Create(set).Error
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (r *setRepository) UpdatePartial(ctx context.Context, id, workoutID, ownerID string, patch domain.SetPatch) (*domain.Set, error) {
	if err := ownedWorkout(r.db.WithContext(ctx), workoutID, ownerID); err != nil {
		return nil, err
	}
	// Both columns are nullable, so explicit null clears them.
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Reps.Set {
		if patch.Reps.Valid {
			updates["reps"] = patch.Reps.Value
		} else {
			updates["reps"] = nil
		}
	}
	if patch.Weight.Set {
		if patch.Weight.Valid {
			updates["weight"] = patch.Weight.Value
		} else {
			updates["weight"] = nil
		}
	}

	res := r.db.WithContext(ctx).Model(&domain.Set{}).
		Where(entryScope, id, workoutID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	var set domain.Set
	err := r.db.WithContext(ctx).
		Where(entryScope, id, workoutID).
		First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *setRepository) Remove(ctx context.Context, id, workoutID, ownerID string) error {
	if err := ownedWorkout(r.db.WithContext(ctx), workoutID, ownerID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Where(entryScope, id, workoutID).
		Delete(&domain.Set{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
