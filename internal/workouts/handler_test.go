package workouts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/workouts"
)

type handlerRepoMock struct {
	*workoutsRepoMock
}

func (m *handlerRepoMock) List(_ context.Context, params workouts.ListParams) ([]workouts.Workout, int, error) {
	all, err := m.ListAll(context.Background(), params.WorkoutParams)
	if err != nil {
		return nil, -1, err
	}
	return all, len(all), nil
}

func (m *handlerRepoMock) TrainedDates(_ context.Context, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	for _, w := range m.workouts {
		if !w.StartTime.Before(from) && !w.StartTime.After(to) {
			dates = append(dates, w.StartTime)
		}
	}
	return dates, nil
}

func testHandlerAndRouter(stored ...workouts.Workout) *mux.Router {
	repo := &handlerRepoMock{newWorkoutsRepoMock(stored...)}
	handler := workouts.NewHandler(workouts.NewHandlerParams{
		Repo:             repo,
		Analyzer:         workouts.NewAnalyzer(repo.workoutsRepoMock, testTemplates()),
		RecoveryAnalyzer: workouts.NewRecoveryAnalyzer(repo),
		CacheSizeMB:      1,
		CacheExpireSecs:  60,
	})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/workouts", handler.HandleList).Methods("GET")
	r.HandleFunc("/api/v1/workouts/muscle-distribution", handler.HandleDistribution).Methods("GET")
	r.HandleFunc("/api/v1/workouts/{id}", handler.HandleGet).Methods("GET")
	r.HandleFunc("/api/v1/workouts/{id}/muscles", handler.HandleWorkoutMuscles).Methods("GET")
	r.HandleFunc("/api/v1/recovery", handler.HandleRecovery).Methods("GET")
	return r
}

func TestHandler_List(t *testing.T) {
	router := testHandlerAndRouter(workouts.Workout{
		ID:        1,
		Platform:  "hevy",
		Title:     "Push Day",
		StartTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest("GET", "/api/v1/workouts?page=1&size=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp workouts.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Workouts, 1)
	assert.Equal(t, "Push Day", resp.Workouts[0].Title)
}

func TestHandler_Get_NotFound(t *testing.T) {
	router := testHandlerAndRouter()

	req := httptest.NewRequest("GET", "/api/v1/workouts/42", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Get_InvalidID(t *testing.T) {
	router := testHandlerAndRouter()

	req := httptest.NewRequest("GET", "/api/v1/workouts/nan", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_WorkoutMuscles(t *testing.T) {
	router := testHandlerAndRouter(workouts.Workout{
		ID:       1,
		Platform: "hevy",
		Exercises: []workouts.WorkoutExercise{
			{TemplateID: "bench-press", Sets: setsOf(3)},
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/workouts/1/muscles", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var analysis workouts.EngagementAnalysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &analysis))
	assert.InDelta(t, 3.0, analysis.Engagement["chest"], 0.001)
	assert.InDelta(t, 1.5, analysis.Engagement["triceps"], 0.001)
	assert.Equal(t, 3, analysis.TotalSets)
}

func TestHandler_Distribution(t *testing.T) {
	router := testHandlerAndRouter(workouts.Workout{
		ID:        1,
		Platform:  "hevy",
		StartTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Exercises: []workouts.WorkoutExercise{
			{TemplateID: "bench-press", Sets: setsOf(3)},
			{TemplateID: "skullcrusher", Sets: setsOf(2)},
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/workouts/muscle-distribution?from=2024-05-01&to=2024-05-31", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp workouts.DistributionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.TotalSets)
	require.Len(t, resp.Distribution, 2)
	assert.Equal(t, "triceps", resp.Distribution[0].Muscle)
	assert.InDelta(t, 53.85, resp.Distribution[0].Percent, 0.001)

	// second request comes from the cache and matches
	rr2 := httptest.NewRecorder()
	router.ServeHTTP(rr2, httptest.NewRequest("GET", "/api/v1/workouts/muscle-distribution?from=2024-05-01&to=2024-05-31", nil))
	require.Equal(t, http.StatusOK, rr2.Code)
	assert.Equal(t, rr.Body.String(), rr2.Body.String())
}

func TestHandler_Recovery(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	router := testHandlerAndRouter(workouts.Workout{
		ID:        1,
		Platform:  "hevy",
		StartTime: yesterday,
		Exercises: []workouts.WorkoutExercise{
			{TemplateID: "bench-press", Sets: setsOf(3)},
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/recovery", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp workouts.RecoveryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	// trained yesterday, so the day before is the last recovery day
	dayBefore := yesterday.AddDate(0, 0, -1).Format("2006-01-02")
	assert.Equal(t, dayBefore, resp.LastRecoveryDay)
	assert.Equal(t, 2, resp.DaysSinceRecovery)

	// every day of the period except yesterday was a recovery day
	require.Len(t, resp.RecoveryDates, resp.RecoveryDays)
	assert.Contains(t, resp.RecoveryDates, dayBefore)
	assert.NotContains(t, resp.RecoveryDates, yesterday.Format("2006-01-02"))
}
