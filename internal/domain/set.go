package domain

import "time"

// Set is one performed set of a WorkoutExercise. SetNumber is one-indexed
// and unique within its parent entry. Reps and Weight stay nil until the
// lifter fills them in, which is normal while a session is underway.
type Set struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkoutExerciseID string    `gorm:"type:varchar(36);not null;index" json:"workoutExerciseId"`
	SetNumber         int       `gorm:"not null" json:"setNumber"`
	Reps              *int      `json:"reps"`
	Weight            *float64  `gorm:"type:decimal(10,2)" json:"weight"` // Kilograms
	CreatedAt         time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"not null" json:"updatedAt"`
}

// SetPatch is the tri-state partial update for a Set. Both columns are
// nullable, so explicit null is a meaningful "clear this value".
type SetPatch struct {
	Reps   Optional[int]     `json:"reps"`
	Weight Optional[float64] `json:"weight"`
}

// Empty reports whether the patch touches no fields at all.
func (p SetPatch) Empty() bool {
	return !p.Reps.Set && !p.Weight.Set
}
