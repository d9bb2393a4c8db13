// internal/repository/store/exercise_repo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

type exerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository creates a new GORM-backed exercise catalog repository.
func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.OwnerID == "" || exercise.Name == "" {
		return nil, fmt.Errorf("exercise requires ownerId and name")
	}
	now := time.Now().UTC()
	exercise.ID = uuid.NewString()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return nil, err
	}
	return exercise, nil
}

func (r *exerciseRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&exercise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *exerciseRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Exercise, error) {
	exercises := make([]domain.Exercise, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name").
		Find(&exercises).Error
	if err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id, ownerID string) error {
	// workout_exercises.exercise_id has no cascade, so the database refuses
	// to orphan logged history and we surface that as ErrExerciseInUse.
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Exercise{})
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return repository.ErrExerciseInUse
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
