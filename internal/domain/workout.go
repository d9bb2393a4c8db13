package domain

import "time"

// Workout is a single logged training session owned by one user.
// CompletedAt == nil means the session is still in progress; a workout may
// move back to in-progress when its completion timestamp is cleared.
type Workout struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID     string     `gorm:"type:varchar(64);not null;index" json:"ownerId"` // External identity provider subject
	Name        *string    `gorm:"type:varchar(100)" json:"name"`
	StartedAt   time.Time  `gorm:"not null;index" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`

	// Ordered exercise entries; loaded with the workout, never lazily.
	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"exercises"`
}

// Completed reports whether the session has been marked finished.
func (w *Workout) Completed() bool {
	return w.CompletedAt != nil
}

// WorkoutPatch carries a partial update. Each field is tri-state: absent
// fields keep their stored value, null clears nullable columns, and a value
// replaces the column.
type WorkoutPatch struct {
	Name        Optional[string]    `json:"name"`
	StartedAt   Optional[time.Time] `json:"startedAt"`
	CompletedAt Optional[time.Time] `json:"completedAt"`
}

// Empty reports whether the patch touches no fields at all.
func (p WorkoutPatch) Empty() bool {
	return !p.Name.Set && !p.StartedAt.Set && !p.CompletedAt.Set
}
