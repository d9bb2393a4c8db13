// internal/domain/exercise.go
package domain

import "time"

// Exercise is a reusable movement definition in a user's personal catalog,
// e.g. "Back Squat". Workouts reference exercises through WorkoutExercise
// rows instead of embedding them, so renaming an exercise updates every
// session that used it.
type Exercise struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(64);not null;index" json:"ownerId"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}
