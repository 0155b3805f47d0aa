package hevy_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/platforms/hevy"
)

func TestClient_FetchWorkouts_AllPages(t *testing.T) {
	var receivedAPIKeys []string
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAPIKeys = append(receivedAPIKeys, r.Header.Get("api-key"))
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			fmt.Fprint(w, `{"page":1,"page_count":2,"workouts":[
				{"id":"w3","title":"Push Day","updated_at":"2024-05-03T10:00:00Z"},
				{"id":"w2","title":"Pull Day","updated_at":"2024-05-02T10:00:00Z"}
			]}`)
		case "2":
			fmt.Fprint(w, `{"page":2,"page_count":2,"workouts":[
				{"id":"w1","title":"Leg Day","updated_at":"2024-05-01T10:00:00Z"}
			]}`)
		default:
			http.Error(w, "unexpected page", http.StatusBadRequest)
		}
	}))
	defer testServer.Close()

	client := hevy.NewClient(testServer.URL, "test-key", testServer.Client())

	workouts, err := client.FetchWorkouts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, workouts, 3)
	assert.Equal(t, "w3", workouts[0].ID)
	assert.Equal(t, "w1", workouts[2].ID)

	for _, key := range receivedAPIKeys {
		assert.Equal(t, "test-key", key)
	}
}

func TestClient_FetchWorkouts_StopsAtCursor(t *testing.T) {
	pagesServed := 0
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		// all workouts were edited recently, but only start_time decides the cursor
		fmt.Fprint(w, `{"page":1,"page_count":5,"workouts":[
			{"id":"w3","title":"Push Day","start_time":"2024-05-03T10:00:00Z","updated_at":"2024-05-20T08:00:00Z"},
			{"id":"w2","title":"Pull Day","start_time":"2024-05-02T10:00:00Z","updated_at":"2024-05-20T08:00:00Z"},
			{"id":"w1","title":"Leg Day","start_time":"2024-05-01T10:00:00Z","updated_at":"2024-05-20T08:00:00Z"}
		]}`)
	}))
	defer testServer.Close()

	client := hevy.NewClient(testServer.URL, "test-key", testServer.Client())

	since := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	workouts, err := client.FetchWorkouts(context.Background(), &since)
	require.NoError(t, err)

	// w2 matches the cursor exactly and is not returned again
	require.Len(t, workouts, 1)
	assert.Equal(t, "w3", workouts[0].ID)
	assert.Equal(t, 1, pagesServed)
}

func TestClient_FetchExerciseTemplates(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			fmt.Fprint(w, `{"page":1,"page_count":2,"exercise_templates":[
				{"id":"t1","title":"Bench Press","primary_muscle_group":"chest","secondary_muscle_groups":["triceps","shoulders"]}
			]}`)
		case "2":
			fmt.Fprint(w, `{"page":2,"page_count":2,"exercise_templates":[
				{"id":"t2","title":"Squat","primary_muscle_group":"quadriceps","secondary_muscle_groups":["glutes"],"is_custom":true}
			]}`)
		default:
			http.Error(w, "unexpected page", http.StatusBadRequest)
		}
	}))
	defer testServer.Close()

	client := hevy.NewClient(testServer.URL, "test-key", testServer.Client())

	templates, err := client.FetchExerciseTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "chest", templates[0].PrimaryMuscleGroup)
	assert.True(t, templates[1].IsCustom)
}

func TestClient_FetchWorkouts_APIError(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer testServer.Close()

	client := hevy.NewClient(testServer.URL, "wrong-key", testServer.Client())

	_, err := client.FetchWorkouts(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
