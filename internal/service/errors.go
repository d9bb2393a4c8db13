package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// --- Error Definitions ---
// Sentinel errors carry the exact message the API envelope returns, so the
// handler layer can respond with err.Error() directly. Every not-found
// message covers the not-owned case too; callers must not be able to tell
// whether a row exists under another account.
var (
	ErrUnauthorized     = errors.New("Unauthorized")
	ErrInvalidInput     = errors.New("Invalid input")
	ErrWorkoutNotFound  = errors.New("Workout not found or you do not have permission to edit it")
	ErrExerciseNotFound = errors.New("Exercise not found or you do not have permission to use it")
	ErrEntryNotFound    = errors.New("Exercise entry not found or you do not have permission to edit it")
	ErrSetNotFound      = errors.New("Set not found or you do not have permission to edit it")
	ErrExerciseInUse    = errors.New("Exercise is still used by one or more workouts")
)

// FieldErrors maps input field names to a human-readable problem each.
type FieldErrors map[string]string

// ValidationError rejects a mutation before it reaches storage. It matches
// ErrInvalidInput under errors.Is, and the field map feeds the envelope's
// details object.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// --- Field Validators ---

const (
	minNameChars = 1
	maxNameChars = 100
	maxWeightKg  = 99999999.99 // NUMERIC(10,2) ceiling
)

// checkName enforces the 1..100 character bound shared by workout and
// exercise names. Characters, not bytes; lifters name things in any script.
func checkName(fields FieldErrors, key, name string) {
	n := utf8.RuneCountInString(name)
	if n < minNameChars {
		fields[key] = fmt.Sprintf("must be at least %d character", minNameChars)
		return
	}
	if n > maxNameChars {
		fields[key] = fmt.Sprintf("must be at most %d characters", maxNameChars)
	}
}

// checkID rejects identifiers that cannot possibly match a stored row.
func checkID(fields FieldErrors, key, id string) {
	if _, err := uuid.Parse(id); err != nil {
		fields[key] = "must be a valid id"
	}
}

func checkReps(fields FieldErrors, reps int) {
	if reps < 0 {
		fields["reps"] = "must be zero or greater"
	}
}

func checkWeight(fields FieldErrors, weight float64) {
	if weight < 0 {
		fields["weight"] = "must be zero or greater"
		return
	}
	if weight > maxWeightKg {
		fields["weight"] = "is too large"
	}
}
