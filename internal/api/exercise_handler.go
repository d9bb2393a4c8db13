package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for adding a catalog entry.
type CreateExerciseRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ExerciseResponse is the DTO for returning a catalog exercise.
type ExerciseResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type exerciseEnvelope struct {
	Success  bool             `json:"success"`
	Exercise ExerciseResponse `json:"exercise"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:        ex.ID,
		OwnerID:   ex.OwnerID,
		Name:      ex.Name,
		CreatedAt: ex.CreatedAt,
		UpdatedAt: ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the caller's exercise catalog
// @Description Returns the catalog sorted by name.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to load exercises")
		return
	}

	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// CreateExercise godoc
// @Summary Add an exercise to the catalog
// @Description Creates a movement definition owned by the caller.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} exerciseEnvelope
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to create exercise"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, bindingDetails(err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		respondServiceError(c, err, "Failed to create exercise")
		return
	}

	c.JSON(http.StatusCreated, exerciseEnvelope{Success: true, Exercise: MapExerciseToResponse(exercise)})
}

// DeleteExercise godoc
// @Summary Delete a catalog exercise
// @Description Removes an unused movement definition. Exercises referenced by any workout cannot be deleted.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} okEnvelope
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Failure 409 {object} errorResponse "Still referenced by workouts"
// @Failure 500 {object} errorResponse "Failed to delete exercise"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	err = h.exerciseService.DeleteExercise(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to delete exercise")
		return
	}

	c.JSON(http.StatusOK, okEnvelope{Success: true})
}
