package domain

import "time"

// WorkoutExercise links an Exercise into a Workout at a display position.
// Order is zero-indexed and unique per workout; sets hang off this row, not
// off the exercise itself, so the same movement can appear twice in one
// session with independent sets.
type WorkoutExercise struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkoutID  string    `gorm:"type:varchar(36);not null;index" json:"workoutId"`
	ExerciseID string    `gorm:"type:varchar(36);not null;index" json:"exerciseId"`
	Order      int       `gorm:"not null" json:"order"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`

	Exercise Exercise `gorm:"foreignKey:ExerciseID" json:"exercise"`
	Sets     []Set    `gorm:"foreignKey:WorkoutExerciseID" json:"sets"`
}
