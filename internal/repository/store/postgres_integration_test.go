//go:build integration
// +build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/repository"
)

// openPostgresDB starts a throwaway postgres container and migrates it.
// Run with: go test -tags=integration ./internal/repository/store/
func openPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("liftingdiary"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	gdb, err := Open(connStr)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })

	if err := RunMigrations(ctx, gdb, DialectPostgres); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return gdb
}

// TestPostgresRoundTrip runs the behaviors whose SQL differs between the
// dialects: quoted "order" arithmetic, timestamp range filtering, and the
// foreign key violation shape pgx reports.
func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	gdb := openPostgresDB(t)

	workoutRepo := NewWorkoutRepository(gdb)
	exerciseRepo := NewExerciseRepository(gdb)
	entryRepo := NewWorkoutExerciseRepository(gdb)
	setRepo := NewSetRepository(gdb)

	workout, err := workoutRepo.Create(ctx, &domain.Workout{
		OwnerID:   "user-a",
		Name:      strPtr("Leg Day"),
		StartedAt: time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create workout: %v", err)
	}
	if _, err := workoutRepo.GetByIDAndOwner(ctx, workout.ID, "user-b"); err != repository.ErrNotFound {
		t.Fatalf("get as other owner: err = %v, want ErrNotFound", err)
	}

	exercise, err := exerciseRepo.Create(ctx, &domain.Exercise{OwnerID: "user-a", Name: "Back Squat"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	var entries []*domain.WorkoutExercise
	for i := 0; i < 2; i++ {
		entry, err := entryRepo.Attach(ctx, workout.ID, exercise.ID, "user-a")
		if err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
		if entry.Order != i {
			t.Fatalf("entry order = %d, want %d", entry.Order, i)
		}
		entries = append(entries, entry)
	}

	set, err := setRepo.Add(ctx, entries[0].ID, workout.ID, "user-a", intPtr(5), floatPtr(142.5))
	if err != nil {
		t.Fatalf("add set: %v", err)
	}
	if set.SetNumber != 1 {
		t.Fatalf("set number = %d, want 1", set.SetNumber)
	}

	if err := exerciseRepo.Delete(ctx, exercise.ID, "user-a"); err != repository.ErrExerciseInUse {
		t.Fatalf("delete in use: err = %v, want ErrExerciseInUse", err)
	}

	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	workouts, err := workoutRepo.ListByOwnerOnDate(ctx, "user-a", day)
	if err != nil {
		t.Fatalf("list on date: %v", err)
	}
	if len(workouts) != 1 || workouts[0].ID != workout.ID {
		t.Fatalf("date filter returned %d workouts, want the march 10 session", len(workouts))
	}
	tree := workouts[0]
	if len(tree.Exercises) != 2 || len(tree.Exercises[0].Sets) != 1 {
		t.Fatalf("tree = %d entries / %d sets, want 2 / 1", len(tree.Exercises), len(tree.Exercises[0].Sets))
	}
}
