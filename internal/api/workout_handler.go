package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/G3Ram/liftingdiary/internal/domain"
	"github.com/G3Ram/liftingdiary/internal/service"
)

// dateLayout is the calendar-day query format for workout listings.
const dateLayout = "2006-01-02"

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateWorkoutRequest defines the expected JSON for starting a session.
type CreateWorkoutRequest struct {
	Name      *string   `json:"name" binding:"omitempty,min=1,max=100"`
	StartedAt time.Time `json:"startedAt" binding:"required"`
}

// UpdateWorkoutRequest is the tri-state patch body. Fields left out of the
// JSON stay untouched; explicit null clears name or completedAt.
type UpdateWorkoutRequest struct {
	Name        domain.Optional[string]    `json:"name"`
	StartedAt   domain.Optional[time.Time] `json:"startedAt"`
	CompletedAt domain.Optional[time.Time] `json:"completedAt"`
}

// AttachExerciseRequest names the catalog exercise to append to a workout.
type AttachExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

// AddSetRequest carries the optional initial values of a new set. Lifters
// usually add the set first and fill in reps and weight after performing it.
type AddSetRequest struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// UpdateSetRequest is the tri-state patch body for a set.
type UpdateSetRequest struct {
	Reps   domain.Optional[int]     `json:"reps"`
	Weight domain.Optional[float64] `json:"weight"`
}

// WorkoutResponse is the DTO for returning a workout with its full tree.
type WorkoutResponse struct {
	ID          string                    `json:"id"`
	OwnerID     string                    `json:"ownerId"`
	Name        *string                   `json:"name"`
	StartedAt   time.Time                 `json:"startedAt"`
	CompletedAt *time.Time                `json:"completedAt"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	Exercises   []WorkoutExerciseResponse `json:"exercises"`
}

// WorkoutExerciseResponse is the DTO for one ordered entry of a workout.
type WorkoutExerciseResponse struct {
	ID         string           `json:"id"`
	WorkoutID  string           `json:"workoutId"`
	ExerciseID string           `json:"exerciseId"`
	Order      int              `json:"order"`
	Exercise   ExerciseResponse `json:"exercise"`
	Sets       []SetResponse    `json:"sets"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// SetResponse is the DTO for a single logged set.
type SetResponse struct {
	ID                string    `json:"id"`
	WorkoutExerciseID string    `json:"workoutExerciseId"`
	SetNumber         int       `json:"setNumber"`
	Reps              *int      `json:"reps"`
	Weight            *float64  `json:"weight"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Success envelopes for mutations. Error cases share errorResponse.
type workoutEnvelope struct {
	Success bool            `json:"success"`
	Workout WorkoutResponse `json:"workout"`
}

type entryEnvelope struct {
	Success         bool                    `json:"success"`
	WorkoutExercise WorkoutExerciseResponse `json:"workoutExercise"`
}

type setEnvelope struct {
	Success bool        `json:"success"`
	Set     SetResponse `json:"set"`
}

type okEnvelope struct {
	Success bool `json:"success"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := make([]WorkoutExerciseResponse, 0, len(w.Exercises))
	for i := range w.Exercises {
		exercises = append(exercises, MapWorkoutExerciseToResponse(&w.Exercises[i]))
	}
	return WorkoutResponse{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Name:        w.Name,
		StartedAt:   w.StartedAt,
		CompletedAt: w.CompletedAt,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Exercises:   exercises,
	}
}

// MapWorkoutsToResponse converts a slice of domain.Workout to DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// MapWorkoutExerciseToResponse converts a domain.WorkoutExercise to its DTO.
func MapWorkoutExerciseToResponse(entry *domain.WorkoutExercise) WorkoutExerciseResponse {
	if entry == nil {
		return WorkoutExerciseResponse{}
	}
	sets := make([]SetResponse, 0, len(entry.Sets))
	for i := range entry.Sets {
		sets = append(sets, MapSetToResponse(&entry.Sets[i]))
	}
	return WorkoutExerciseResponse{
		ID:         entry.ID,
		WorkoutID:  entry.WorkoutID,
		ExerciseID: entry.ExerciseID,
		Order:      entry.Order,
		Exercise:   MapExerciseToResponse(&entry.Exercise),
		Sets:       sets,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
}

// MapSetToResponse converts a domain.Set to SetResponse DTO.
func MapSetToResponse(set *domain.Set) SetResponse {
	if set == nil {
		return SetResponse{}
	}
	return SetResponse{
		ID:                set.ID,
		WorkoutExerciseID: set.WorkoutExerciseID,
		SetNumber:         set.SetNumber,
		Reps:              set.Reps,
		Weight:            set.Weight,
		CreatedAt:         set.CreatedAt,
		UpdatedAt:         set.UpdatedAt,
	}
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List the caller's workouts
// @Description Returns the full history newest-first, or a single calendar day when ?date=YYYY-MM-DD is given. The day is interpreted in the server's timezone.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param date query string false "Calendar day filter (YYYY-MM-DD)"
// @Success 200 {array} WorkoutResponse
// @Failure 400 {object} errorResponse "Invalid date"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var workouts []domain.Workout
	if dateStr := c.Query("date"); dateStr != "" {
		day, perr := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if perr != nil {
			respondInvalid(c, map[string]string{"date": "must be formatted " + dateLayout})
			return
		}
		workouts, err = h.workoutService.ListWorkoutsOnDate(c.Request.Context(), ownerID, day)
	} else {
		workouts, err = h.workoutService.ListWorkouts(c.Request.Context(), ownerID)
	}
	if err != nil {
		respondServiceError(c, err, "Failed to load workouts")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout godoc
// @Summary Get one workout
// @Description Returns the workout with its exercise entries in position order and each entry's sets in set-number order.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load workout")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CreateWorkout godoc
// @Summary Start a new workout
// @Description Creates an in-progress session owned by the caller. completedAt always starts empty.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} workoutEnvelope
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to create workout"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, bindingDetails(err))
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), ownerID, service.CreateWorkoutInput{
		Name:      req.Name,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create workout")
		return
	}

	c.JSON(http.StatusCreated, workoutEnvelope{Success: true, Workout: MapWorkoutToResponse(workout)})
}

// UpdateWorkout godoc
// @Summary Partially update a workout
// @Description Applies a tri-state patch: absent fields stay, null clears name or completedAt, values replace. Clearing completedAt reopens the session.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param patch body UpdateWorkoutRequest true "Fields to change"
// @Success 200 {object} workoutEnvelope
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Failure 500 {object} errorResponse "Failed to update workout"
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, bindingDetails(err))
		return
	}

	patch := domain.WorkoutPatch{
		Name:        req.Name,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
	}
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "Failed to update workout")
		return
	}

	c.JSON(http.StatusOK, workoutEnvelope{Success: true, Workout: MapWorkoutToResponse(workout)})
}

// AttachExercise godoc
// @Summary Append an exercise to a workout
// @Description Adds a catalog exercise at the next position in the workout.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param entry body AttachExerciseRequest true "Exercise to attach"
// @Success 201 {object} entryEnvelope
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Workout or exercise not found"
// @Failure 500 {object} errorResponse "Failed to attach exercise"
// @Router /workouts/{id}/exercises [post]
func (h *WorkoutHandler) AttachExercise(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req AttachExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, bindingDetails(err))
		return
	}

	entry, err := h.workoutService.AttachExercise(c.Request.Context(), ownerID, c.Param("id"), req.ExerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to attach exercise")
		return
	}

	c.JSON(http.StatusCreated, entryEnvelope{Success: true, WorkoutExercise: MapWorkoutExerciseToResponse(entry)})
}

// DetachExercise godoc
// @Summary Remove an exercise entry from a workout
// @Description Deletes the entry and every set logged under it.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param entryId path string true "Workout exercise entry ID"
// @Success 200 {object} okEnvelope
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Failure 500 {object} errorResponse "Failed to detach exercise"
// @Router /workouts/{id}/exercises/{entryId} [delete]
func (h *WorkoutHandler) DetachExercise(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	err = h.workoutService.DetachExercise(c.Request.Context(), ownerID, c.Param("id"), c.Param("entryId"))
	if err != nil {
		respondServiceError(c, err, "Failed to detach exercise")
		return
	}

	c.JSON(http.StatusOK, okEnvelope{Success: true})
}

// AddSet godoc
// @Summary Log a set under a workout exercise entry
// @Description Appends a set with the next set number. Reps and weight may be filled in later.
// @Tags Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param entryId path string true "Workout exercise entry ID"
// @Param set body AddSetRequest true "Initial set values"
// @Success 201 {object} setEnvelope
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Failure 500 {object} errorResponse "Failed to add set"
// @Router /workouts/{id}/exercises/{entryId}/sets [post]
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req AddSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, bindingDetails(err))
		return
	}

	set, err := h.workoutService.AddSet(c.Request.Context(), ownerID, c.Param("id"), c.Param("entryId"), service.AddSetInput{
		Reps:   req.Reps,
		Weight: req.Weight,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to add set")
		return
	}

	c.JSON(http.StatusCreated, setEnvelope{Success: true, Set: MapSetToResponse(set)})
}

// UpdateSet godoc
// @Summary Partially update a set
// @Description Applies a tri-state patch; null clears reps or weight.
// @Tags Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param setId path string true "Set ID"
// @Param patch body UpdateSetRequest true "Fields to change"
// @Success 200 {object} setEnvelope
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Failure 500 {object} errorResponse "Failed to update set"
// @Router /workouts/{id}/sets/{setId} [patch]
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, bindingDetails(err))
		return
	}

	patch := domain.SetPatch{
		Reps:   req.Reps,
		Weight: req.Weight,
	}
	set, err := h.workoutService.UpdateSet(c.Request.Context(), ownerID, c.Param("id"), c.Param("setId"), patch)
	if err != nil {
		respondServiceError(c, err, "Failed to update set")
		return
	}

	c.JSON(http.StatusOK, setEnvelope{Success: true, Set: MapSetToResponse(set)})
}

// RemoveSet godoc
// @Summary Delete a set
// @Description Removes the set. Later sets keep their numbers; the log is history, not a sequence to repack.
// @Tags Sets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param setId path string true "Set ID"
// @Success 200 {object} okEnvelope
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Not found or not yours"
// @Failure 500 {object} errorResponse "Failed to remove set"
// @Router /workouts/{id}/sets/{setId} [delete]
func (h *WorkoutHandler) RemoveSet(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	err = h.workoutService.RemoveSet(c.Request.Context(), ownerID, c.Param("id"), c.Param("setId"))
	if err != nil {
		respondServiceError(c, err, "Failed to remove set")
		return
	}

	c.JSON(http.StatusOK, okEnvelope{Success: true})
}
