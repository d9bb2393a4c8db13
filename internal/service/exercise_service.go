package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
	"github.com/G3Ram/liftingdiary/internal/revalidate"
)

// catalogPath is the rendered view of the exercise catalog.
const catalogPath = "/exercises"

// ExerciseService manages a user's private exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, ownerID, name string) (*domain.Exercise, error)
	ListExercises(ctx context.Context, ownerID string) ([]domain.Exercise, error)
	DeleteExercise(ctx context.Context, ownerID, exerciseID string) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	signaler     revalidate.Signaler
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, signaler revalidate.Signaler) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		signaler:     signaler,
	}
}

func (s *exerciseService) signalCatalogStale(ctx context.Context) {
	if err := s.signaler.Invalidate(ctx, catalogPath); err != nil {
		log.Warn().Err(err).Msg("revalidation signal failed")
	}
}

// CreateExercise adds a movement to the caller's catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, ownerID, name string) (*domain.Exercise, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	fields := FieldErrors{}
	checkName(fields, "name", name)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	exercise := &domain.Exercise{
		OwnerID: ownerID,
		Name:    name,
	}
	created, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	s.signalCatalogStale(ctx)
	return created, nil
}

// ListExercises returns the caller's catalog sorted by name.
func (s *exerciseService) ListExercises(ctx context.Context, ownerID string) ([]domain.Exercise, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	return s.exerciseRepo.ListByOwner(ctx, ownerID)
}

// DeleteExercise removes a catalog entry. Entries referenced by any workout
// are kept; deleting them would hollow out logged history.
func (s *exerciseService) DeleteExercise(ctx context.Context, ownerID, exerciseID string) error {
	if ownerID == "" {
		return ErrUnauthorized
	}
	fields := FieldErrors{}
	checkID(fields, "exerciseId", exerciseID)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	err := s.exerciseRepo.Delete(ctx, exerciseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		if errors.Is(err, repository.ErrExerciseInUse) {
			return ErrExerciseInUse
		}
		return err
	}
	s.signalCatalogStale(ctx)
	return nil
}
