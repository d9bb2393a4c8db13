package store

import (
	"context"
	"testing"
	"time"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

func TestExerciseCreateAndListSorted(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewExerciseRepository(gdb)

	for _, name := range []string{"Squat", "Bench Press", "Deadlift"} {
		if _, err := repo.Create(ctx, &domain.Exercise{OwnerID: "user-a", Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	seedExercise(t, gdb, "user-b", "Aerobics")

	exercises, err := repo.ListByOwner(ctx, "user-a")
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(exercises) != 3 {
		t.Fatalf("got %d exercises, want 3", len(exercises))
	}
	for i, want := range []string{"Bench Press", "Deadlift", "Squat"} {
		if exercises[i].Name != want {
			t.Fatalf("position %d = %s, want %s", i, exercises[i].Name, want)
		}
	}
}

func TestExerciseOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewExerciseRepository(gdb)

	exercise := seedExercise(t, gdb, "user-a", "Back Squat")

	if _, err := repo.GetByIDAndOwner(ctx, exercise.ID, "user-b"); err != repository.ErrNotFound {
		t.Fatalf("get as other owner: err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, exercise.ID, "user-b"); err != repository.ErrNotFound {
		t.Fatalf("delete as other owner: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByIDAndOwner(ctx, exercise.ID, "user-a"); err != nil {
		t.Fatalf("row should have survived the foreign delete: %v", err)
	}
}

func TestExerciseDeleteRefusedWhileInUse(t *testing.T) {
	ctx := context.Background()
	gdb := openTestDB(t)
	repo := NewExerciseRepository(gdb)
	entryRepo := NewWorkoutExerciseRepository(gdb)

	workout := seedWorkout(t, gdb, "user-a", time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC))
	exercise := seedExercise(t, gdb, "user-a", "Back Squat")

	entry, err := entryRepo.Attach(ctx, workout.ID, exercise.ID, "user-a")
	if err != nil {
		t.Fatalf("attach exercise: %v", err)
	}

	if err := repo.Delete(ctx, exercise.ID, "user-a"); err != repository.ErrExerciseInUse {
		t.Fatalf("delete in use: err = %v, want ErrExerciseInUse", err)
	}

	// Once the last workout lets go, the catalog entry can be removed.
	if err := entryRepo.Detach(ctx, entry.ID, workout.ID, "user-a"); err != nil {
		t.Fatalf("detach entry: %v", err)
	}
	if err := repo.Delete(ctx, exercise.ID, "user-a"); err != nil {
		t.Fatalf("delete after detach: %v", err)
	}
	if _, err := repo.GetByIDAndOwner(ctx, exercise.ID, "user-a"); err != repository.ErrNotFound {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
}
