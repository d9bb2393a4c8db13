package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new GORM-backed workout repository.
func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

// withTree preloads the entry/exercise/set graph in display order, so every
// fetched workout arrives ready to render: entries by position, sets by set
// number. "order" goes through clause.Column because it is a reserved word
// and needs dialect-aware quoting.
func withTree(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
		}).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("set_number")
		})
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if workout.OwnerID == "" || workout.StartedAt.IsZero() {
		return nil, fmt.Errorf("workout requires ownerId and startedAt")
	}
	now := time.Now().UTC()
	workout.ID = uuid.NewString()
	workout.StartedAt = workout.StartedAt.UTC()
	workout.CompletedAt = nil // new sessions always begin in progress
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(workout).Error; err != nil {
		return nil, err
	}
	return workout, nil
}

func (r *workoutRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Workout, error) {
	var workout domain.Workout
	err := withTree(r.db.WithContext(ctx)).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *workoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	workouts := make([]domain.Workout, 0)
	err := withTree(r.db.WithContext(ctx)).
		Where("owner_id = ?", ownerID).
		Order("started_at DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) ListByOwnerOnDate(ctx context.Context, ownerID string, day time.Time) ([]domain.Workout, error) {
	// Calendar-day bounds in day's own location; time.Date normalizes the
	// day+1 so DST transitions still land on the real next midnight.
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location()).Add(-time.Millisecond)

	workouts := make([]domain.Workout, 0)
	err := withTree(r.db.WithContext(ctx)).
		Where("owner_id = ? AND started_at >= ? AND started_at <= ?", ownerID, start.UTC(), end.UTC()).
		Order("started_at DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) UpdatePartial(ctx context.Context, id, ownerID string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	// updated_at always refreshes, even for an empty patch, so a PATCH that
	// touches nothing is still observable as a write.
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Name.Set {
		if patch.Name.Valid {
			updates["name"] = patch.Name.Value
		} else {
			updates["name"] = nil
		}
	}
	if patch.StartedAt.Set {
		if !patch.StartedAt.Valid {
			return nil, fmt.Errorf("startedAt cannot be null")
		}
		updates["started_at"] = patch.StartedAt.Value.UTC()
	}
	if patch.CompletedAt.Set {
		if patch.CompletedAt.Valid {
			updates["completed_at"] = patch.CompletedAt.Value.UTC()
		} else {
			updates["completed_at"] = nil // clearing reopens the session
		}
	}

	res := r.db.WithContext(ctx).Model(&domain.Workout{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}
