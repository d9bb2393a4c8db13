// Package revalidate signals a caching presentation layer that rendered
// views of the given paths are stale. The diary API never caches reads
// itself; whoever renders /dashboard and /workout/[id] does, and learns
// about successful writes through this hook.
package revalidate

import "context"

// Signaler notifies the rendering layer about stale paths after a
// successful mutation. Implementations must be safe for concurrent use.
type Signaler interface {
	Invalidate(ctx context.Context, paths ...string) error
}

// WorkoutPaths lists the views affected by any change under one workout.
func WorkoutPaths(workoutID string) []string {
	return []string{"/dashboard", "/workout/" + workoutID}
}
