package store

import (
	"context"
	"testing"
	"time"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

func TestAttachAssignsSequentialPositions(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewWorkoutExerciseRepository(gdb)

	workout := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC))
	squat := seedExercise(t, gdb, "user-a", "Back Squat")
	bench := seedExercise(t, gdb, "user-a", "Bench Press")

	first, err := repo.Attach(ctx, workout.ID, squat.ID, "user-a")
	if err != nil {
		t.Fatalf("attach first: %v", err)
	}
	second, err := repo.Attach(ctx, workout.ID, bench.ID, "user-a")
	if err != nil {
		t.Fatalf("attach second: %v", err)
	}
	// The same movement may appear twice in one session.
	third, err := repo.Attach(ctx, workout.ID, squat.ID, "user-a")
	if err != nil {
		t.Fatalf("attach duplicate exercise: %v", err)
	}

	for i, entry := range []*domain.WorkoutExercise{first, second, third} {
		if entry.Order != i {
			t.Fatalf("entry %d order = %d, want %d", i, entry.Order, i)
		}
	}

	// Positions are scoped per workout, not global.
	other := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 11, 7, 30, 0, 0, time.UTC))
	entry, err := repo.Attach(ctx, other.ID, bench.ID, "user-a")
	if err != nil {
		t.Fatalf("attach to second workout: %v", err)
	}
	if entry.Order != 0 {
		t.Fatalf("fresh workout entry order = %d, want 0", entry.Order)
	}
}

func TestAttachChecksOwnershipAndExistence(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewWorkoutExerciseRepository(gdb)

	workout := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC))
	exercise := seedExercise(t, gdb, "user-a", "Back Squat")

	if _, err := repo.Attach(ctx, workout.ID, exercise.ID, "user-b"); err != repository.ErrNotFound {
		t.Fatalf("attach as other owner: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Attach(ctx, "00000000-0000-0000-0000-000000000000", exercise.ID, "user-a"); err != repository.ErrNotFound {
		t.Fatalf("attach to unknown workout: err = %v, want ErrNotFound", err)
	}
	// Unknown exercise ids die on the foreign key, reported the same way.
	if _, err := repo.Attach(ctx, workout.ID, "00000000-0000-0000-0000-000000000000", "user-a"); err != repository.ErrNotFound {
		t.Fatalf("attach unknown exercise: err = %v, want ErrNotFound", err)
	}
}

func TestDetachRemovesEntryAndItsSets(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewWorkoutExerciseRepository(gdb)
	setRepo := NewSetRepository(gdb)

	workout := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC))
	exercise := seedExercise(t, gdb, "user-a", "Back Squat")
	entry, err := repo.Attach(ctx, workout.ID, exercise.ID, "user-a")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := setRepo.Add(ctx, entry.ID, workout.ID, "user-a", intPtr(5), floatPtr(100)); err != nil {
			t.Fatalf("add set %d: %v", i, err)
		}
	}

	if err := repo.Detach(ctx, entry.ID, workout.ID, "user-b"); err != repository.ErrNotFound {
		t.Fatalf("detach as other owner: err = %v, want ErrNotFound", err)
	}
	if err := repo.Detach(ctx, entry.ID, workout.ID, "user-a"); err != nil {
		t.Fatalf("detach: %v", err)
	}

	var setCount int64
	if err := gdb.Model(&domain.Set{}).Where("workout_exercise_id = ?", entry.ID).Count(&setCount).Error; err != nil {
		t.Fatalf("count sets: %v", err)
	}
	if setCount != 0 {
		t.Fatalf("%d sets survived the detach, want 0", setCount)
	}

	if err := repo.Detach(ctx, entry.ID, workout.ID, "user-a"); err != repository.ErrNotFound {
		t.Fatalf("second detach: err = %v, want ErrNotFound", err)
	}
}

func TestDetachRequiresMatchingWorkout(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewWorkoutExerciseRepository(gdb)

	workout := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC))
	other := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 11, 7, 30, 0, 0, time.UTC))
	exercise := seedExercise(t, gdb, "user-a", "Back Squat")
	entry, err := repo.Attach(ctx, workout.ID, exercise.ID, "user-a")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	// A real entry id under the wrong parent looks like a missing row.
	if err := repo.Detach(ctx, entry.ID, other.ID, "user-a"); err != repository.ErrNotFound {
		t.Fatalf("detach under wrong workout: err = %v, want ErrNotFound", err)
	}
	if err := repo.Detach(ctx, entry.ID, workout.ID, "user-a"); err != nil {
		t.Fatalf("detach under right workout: %v", err)
	}
}
