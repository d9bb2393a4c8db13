package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/G3Ram/liftingdiary/internal/repository/store"
	"github.com/G3Ram/liftingdiary/internal/revalidate"
	"github.com/G3Ram/liftingdiary/internal/service"
)

// newTestAPI wires the real stack (sqlite, repositories, services, routes)
// behind a fresh router, the same shape main assembles.
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := store.OpenSQLite(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.RunMigrations(context.Background(), gdb, store.DialectSQLite); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(gdb) })

	signaler := revalidate.NewNoopSignaler()
	exerciseRepo := store.NewExerciseRepository(gdb)
	workoutService := service.NewWorkoutService(
		store.NewWorkoutRepository(gdb),
		exerciseRepo,
		store.NewWorkoutExerciseRepository(gdb),
		store.NewSetRepository(gdb),
		signaler,
	)
	exerciseService := service.NewExerciseService(exerciseRepo, signaler)

	router := gin.New()
	SetupRoutes(router, testSecret, workoutService, exerciseService)
	return router
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	return "Bearer " + signTestToken(t, testSecret, jwt.MapClaims{
		"uid": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
}

// doJSON sends a request. A string body is used verbatim so tests can send
// explicit nulls and broken JSON; anything else is marshaled.
func doJSON(t *testing.T, router *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestAPI(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestDiaryRoutesRejectAnonymousCallers(t *testing.T) {
	router := newTestAPI(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/workouts"},
		{http.MethodPost, "/api/v1/workouts"},
		{http.MethodGet, "/api/v1/workouts/some-id"},
		{http.MethodPatch, "/api/v1/workouts/some-id"},
		{http.MethodGet, "/api/v1/exercises"},
		{http.MethodDelete, "/api/v1/exercises/some-id"},
	}
	for _, rt := range routes {
		w := doJSON(t, router, rt.method, rt.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", rt.method, rt.path, w.Code)
		}
		var resp errorResponse
		decodeJSON(t, w, &resp)
		if resp.Success || resp.Error != "Unauthorized" {
			t.Fatalf("%s %s: body = %+v", rt.method, rt.path, resp)
		}
	}
}

func TestCreateWorkoutEndpoint(t *testing.T) {
	router := newTestAPI(t)
	auth := bearerFor(t, "user-a")

	w := doJSON(t, router, http.MethodPost, "/api/v1/workouts", auth, gin.H{
		"name":      "Push Day",
		"startedAt": "2025-03-10T07:30:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var created workoutEnvelope
	decodeJSON(t, w, &created)
	if !created.Success || created.Workout.ID == "" {
		t.Fatalf("envelope = %+v, want success with generated id", created)
	}
	if created.Workout.CompletedAt != nil {
		t.Fatal("new workouts must start in progress")
	}
	if created.Workout.Exercises == nil || len(created.Workout.Exercises) != 0 {
		t.Fatalf("exercises = %v, want empty array", created.Workout.Exercises)
	}

	// Rejected payloads must change nothing and name the offending field.
	invalid := []struct {
		name  string
		body  any
		field string
	}{
		{"missing startedAt", gin.H{"name": "No Clock"}, "startedAt"},
		{"name too long", gin.H{"name": strings.Repeat("x", 101), "startedAt": "2025-03-10T07:30:00Z"}, "name"},
		{"name wrong type", `{"name": 123, "startedAt": "2025-03-10T07:30:00Z"}`, "name"},
		{"broken json", `{"name": "Push`, "body"},
	}
	for _, tc := range invalid {
		w := doJSON(t, router, http.MethodPost, "/api/v1/workouts", auth, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400 (body %s)", tc.name, w.Code, w.Body.String())
		}
		var resp errorResponse
		decodeJSON(t, w, &resp)
		if resp.Error != "Invalid input" {
			t.Fatalf("%s: error = %q, want Invalid input", tc.name, resp.Error)
		}
		if resp.Details[tc.field] == "" {
			t.Fatalf("%s: details = %v, want an entry for %s", tc.name, resp.Details, tc.field)
		}
	}

	var workouts []WorkoutResponse
	w = doJSON(t, router, http.MethodGet, "/api/v1/workouts", auth, nil)
	decodeJSON(t, w, &workouts)
	if len(workouts) != 1 {
		t.Fatalf("persisted %d workouts, want only the valid one", len(workouts))
	}
}

func TestGetWorkoutIsOwnerScoped(t *testing.T) {
	router := newTestAPI(t)
	owner := bearerFor(t, "user-a")
	stranger := bearerFor(t, "user-b")

	created := createWorkout(t, router, owner, "Push Day", "2025-03-10T07:30:00Z")

	w := doJSON(t, router, http.MethodGet, "/api/v1/workouts/"+created.ID, owner, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got WorkoutResponse
	decodeJSON(t, w, &got)
	if got.ID != created.ID || got.OwnerID != "user-a" {
		t.Fatalf("got %+v, want the created workout", got)
	}

	// Some other account's id and a nonexistent id must be the same 404.
	for _, path := range []string{
		"/api/v1/workouts/" + created.ID,
		"/api/v1/workouts/23dbd09a-0000-4000-8000-000000000000",
	} {
		w := doJSON(t, router, http.MethodGet, path, stranger, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("GET %s: status = %d, want 404", path, w.Code)
		}
		var resp errorResponse
		decodeJSON(t, w, &resp)
		if resp.Error != "Workout not found or you do not have permission to edit it" {
			t.Fatalf("GET %s: error = %q", path, resp.Error)
		}
	}
}

func TestListWorkoutsByDate(t *testing.T) {
	router := newTestAPI(t)
	auth := bearerFor(t, "user-a")

	// The date filter runs in the server's timezone, so seed local times.
	morning := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	evening := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.Local)
	nextDay := time.Date(2025, time.March, 11, 9, 0, 0, 0, time.Local)
	for _, startedAt := range []time.Time{morning, evening, nextDay} {
		createWorkout(t, router, auth, "", startedAt.Format(time.RFC3339))
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/workouts?date=2025-03-10", auth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var day []WorkoutResponse
	decodeJSON(t, w, &day)
	if len(day) != 2 {
		t.Fatalf("got %d workouts, want 2", len(day))
	}
	if !day[0].StartedAt.After(day[1].StartedAt) {
		t.Fatalf("day listing not newest-first: %v then %v", day[0].StartedAt, day[1].StartedAt)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/workouts?date=10-03-2025", auth, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status = %d, want 400", w.Code)
	}
	var resp errorResponse
	decodeJSON(t, w, &resp)
	if resp.Details["date"] == "" {
		t.Fatalf("bad date: details = %v, want a date entry", resp.Details)
	}

	var all []WorkoutResponse
	w = doJSON(t, router, http.MethodGet, "/api/v1/workouts", auth, nil)
	decodeJSON(t, w, &all)
	if len(all) != 3 {
		t.Fatalf("unfiltered listing has %d workouts, want 3", len(all))
	}
}

func TestUpdateWorkoutPatchSemantics(t *testing.T) {
	router := newTestAPI(t)
	auth := bearerFor(t, "user-a")
	created := createWorkout(t, router, auth, "Push Day", "2025-03-10T07:30:00Z")

	// Field absent: keep. Field null: clear. Field present: replace.
	w := doJSON(t, router, http.MethodPatch, "/api/v1/workouts/"+created.ID, auth,
		`{"completedAt": "2025-03-10T08:45:00Z"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d (body %s)", w.Code, w.Body.String())
	}
	var env workoutEnvelope
	decodeJSON(t, w, &env)
	if env.Workout.CompletedAt == nil {
		t.Fatal("completedAt not set")
	}
	if env.Workout.Name == nil || *env.Workout.Name != "Push Day" {
		t.Fatalf("name = %v, want untouched Push Day", env.Workout.Name)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/v1/workouts/"+created.ID, auth,
		`{"name": null, "completedAt": null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("clear: status = %d (body %s)", w.Code, w.Body.String())
	}
	decodeJSON(t, w, &env)
	if env.Workout.Name != nil {
		t.Fatalf("name = %v, want cleared", *env.Workout.Name)
	}
	if env.Workout.CompletedAt != nil {
		t.Fatal("completedAt should be cleared, session reopened")
	}

	w = doJSON(t, router, http.MethodPatch, "/api/v1/workouts/"+created.ID, auth,
		`{"startedAt": null}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("null startedAt: status = %d, want 400", w.Code)
	}
	var resp errorResponse
	decodeJSON(t, w, &resp)
	if resp.Details["startedAt"] != "cannot be null" {
		t.Fatalf("details = %v, want startedAt: cannot be null", resp.Details)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/v1/workouts/not-a-uuid", auth, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d, want 400", w.Code)
	}
	decodeJSON(t, w, &resp)
	if resp.Details["workoutId"] == "" {
		t.Fatalf("details = %v, want a workoutId entry", resp.Details)
	}
}

// TestWorkoutFlowAcrossEndpoints walks one session the way a client would:
// build the workout, log sets, finish, and clean up the catalog.
func TestWorkoutFlowAcrossEndpoints(t *testing.T) {
	router := newTestAPI(t)
	auth := bearerFor(t, "user-a")

	workout := createWorkout(t, router, auth, "Leg Day", "2025-03-10T07:30:00Z")
	squat := createExercise(t, router, auth, "Back Squat")
	press := createExercise(t, router, auth, "Leg Press")

	// Attaching appends: squat at 0, press at 1.
	var entries []WorkoutExerciseResponse
	for i, ex := range []ExerciseResponse{squat, press} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/workouts/"+workout.ID+"/exercises", auth,
			gin.H{"exerciseId": ex.ID})
		if w.Code != http.StatusCreated {
			t.Fatalf("attach %s: status = %d (body %s)", ex.Name, w.Code, w.Body.String())
		}
		var env entryEnvelope
		decodeJSON(t, w, &env)
		if env.WorkoutExercise.Order != i {
			t.Fatalf("attach %s: order = %d, want %d", ex.Name, env.WorkoutExercise.Order, i)
		}
		if env.WorkoutExercise.Exercise.Name != ex.Name {
			t.Fatalf("attach %s: exercise not embedded in response", ex.Name)
		}
		entries = append(entries, env.WorkoutExercise)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/workouts/"+workout.ID+"/exercises", auth,
		gin.H{"exerciseId": "23dbd09a-0000-4000-8000-000000000000"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("attach unknown exercise: status = %d, want 404", w.Code)
	}

	// Log two sets under the squat entry.
	setsPath := "/api/v1/workouts/" + workout.ID + "/exercises/" + entries[0].ID + "/sets"
	var sets []SetResponse
	for i, body := range []any{gin.H{"reps": 5, "weight": 142.5}, gin.H{}} {
		w := doJSON(t, router, http.MethodPost, setsPath, auth, body)
		if w.Code != http.StatusCreated {
			t.Fatalf("add set %d: status = %d (body %s)", i, w.Code, w.Body.String())
		}
		var env setEnvelope
		decodeJSON(t, w, &env)
		if env.Set.SetNumber != i+1 {
			t.Fatalf("set %d number = %d, want %d", i, env.Set.SetNumber, i+1)
		}
		sets = append(sets, env.Set)
	}

	// Fill in the second set, clearing nothing, then clear its weight.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/workouts/"+workout.ID+"/sets/"+sets[1].ID, auth,
		`{"reps": 8, "weight": 140}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update set: status = %d (body %s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPatch, "/api/v1/workouts/"+workout.ID+"/sets/"+sets[1].ID, auth,
		`{"weight": null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("clear weight: status = %d (body %s)", w.Code, w.Body.String())
	}
	var setEnv setEnvelope
	decodeJSON(t, w, &setEnv)
	if setEnv.Set.Weight != nil {
		t.Fatalf("weight = %v, want cleared", *setEnv.Set.Weight)
	}
	if setEnv.Set.Reps == nil || *setEnv.Set.Reps != 8 {
		t.Fatalf("reps = %v, want untouched 8", setEnv.Set.Reps)
	}

	// The full tree comes back in display order.
	w = doJSON(t, router, http.MethodGet, "/api/v1/workouts/"+workout.ID, auth, nil)
	var tree WorkoutResponse
	decodeJSON(t, w, &tree)
	if len(tree.Exercises) != 2 || tree.Exercises[0].ID != entries[0].ID {
		t.Fatalf("tree entries = %+v, want squat first", tree.Exercises)
	}
	if len(tree.Exercises[0].Sets) != 2 || tree.Exercises[0].Sets[0].SetNumber != 1 {
		t.Fatalf("tree sets = %+v, want two sets numbered from 1", tree.Exercises[0].Sets)
	}

	// The squat is still in use, so the catalog refuses to drop it.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/exercises/"+squat.ID, auth, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete in-use exercise: status = %d, want 409", w.Code)
	}
	var resp errorResponse
	decodeJSON(t, w, &resp)
	if resp.Error != "Exercise is still used by one or more workouts" {
		t.Fatalf("conflict error = %q", resp.Error)
	}

	// Remove a set, then the whole entry, then the catalog entry.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/workouts/"+workout.ID+"/sets/"+sets[0].ID, auth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove set: status = %d (body %s)", w.Code, w.Body.String())
	}
	var ok okEnvelope
	decodeJSON(t, w, &ok)
	if !ok.Success {
		t.Fatal("remove set envelope not successful")
	}
	w = doJSON(t, router, http.MethodDelete, "/api/v1/workouts/"+workout.ID+"/exercises/"+entries[0].ID, auth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detach entry: status = %d (body %s)", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodDelete, "/api/v1/exercises/"+squat.ID, auth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete exercise after detach: status = %d (body %s)", w.Code, w.Body.String())
	}

	// Only the leg press remains in the catalog.
	var catalog []ExerciseResponse
	w = doJSON(t, router, http.MethodGet, "/api/v1/exercises", auth, nil)
	decodeJSON(t, w, &catalog)
	if len(catalog) != 1 || catalog[0].ID != press.ID {
		t.Fatalf("catalog = %+v, want just the leg press", catalog)
	}
}

func createWorkout(t *testing.T, router *gin.Engine, auth, name, startedAt string) WorkoutResponse {
	t.Helper()
	body := gin.H{"startedAt": startedAt}
	if name != "" {
		body["name"] = name
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/workouts", auth, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create workout: status = %d (body %s)", w.Code, w.Body.String())
	}
	var env workoutEnvelope
	decodeJSON(t, w, &env)
	return env.Workout
}

func createExercise(t *testing.T, router *gin.Engine, auth, name string) ExerciseResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/exercises", auth, gin.H{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create exercise: status = %d (body %s)", w.Code, w.Body.String())
	}
	var env exerciseEnvelope
	decodeJSON(t, w, &env)
	return env.Exercise
}
