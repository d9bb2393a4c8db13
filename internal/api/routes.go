package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/G3Ram/liftingdiary/internal/service"
)

// SetupRoutes registers every endpoint on the router. All diary routes sit
// behind the session middleware; only health and metrics are open.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	workoutService service.WorkoutService,
	exerciseService service.ExerciseService,
) {
	workoutHandler := NewWorkoutHandler(workoutService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			// GET /api/v1/workouts (optionally ?date=YYYY-MM-DD)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			// POST /api/v1/workouts
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			// GET /api/v1/workouts/{id}
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			// PATCH /api/v1/workouts/{id}
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)

			// POST /api/v1/workouts/{id}/exercises
			workoutGroup.POST("/:id/exercises", workoutHandler.AttachExercise)
			// DELETE /api/v1/workouts/{id}/exercises/{entryId}
			workoutGroup.DELETE("/:id/exercises/:entryId", workoutHandler.DetachExercise)

			// POST /api/v1/workouts/{id}/exercises/{entryId}/sets
			workoutGroup.POST("/:id/exercises/:entryId/sets", workoutHandler.AddSet)
			// PATCH /api/v1/workouts/{id}/sets/{setId}
			workoutGroup.PATCH("/:id/sets/:setId", workoutHandler.UpdateSet)
			// DELETE /api/v1/workouts/{id}/sets/{setId}
			workoutGroup.DELETE("/:id/sets/:setId", workoutHandler.RemoveSet)
		}

		// --- Exercise Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			// GET /api/v1/exercises
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			// POST /api/v1/exercises
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			// DELETE /api/v1/exercises/{id}
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}
	}
}
