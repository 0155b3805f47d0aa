package syncer_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/internal/syncer"
)

func TestHandler_HandleSync_Hevy(t *testing.T) {
	ctrl := gomock.NewController(t)
	hevyMock := NewMockhevyClient(ctrl)
	workoutsRepoMock := NewMockworkoutsRepo(ctrl)
	templatesRepoMock := NewMocktemplatesRepo(ctrl)

	s := syncer.NewSyncer(syncer.NewSyncerParams{
		HevyClient:    hevyMock,
		WorkoutsRepo:  workoutsRepoMock,
		TemplatesRepo: templatesRepoMock,
	})

	hevyMock.EXPECT().
		FetchExerciseTemplates(gomock.Any()).
		Return([]hevy.TemplateRecord{{ID: "t1", Title: "Bench Press"}}, nil)
	templatesRepoMock.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(nil)

	workoutsRepoMock.EXPECT().
		LastStartTime(gomock.Any(), "hevy").
		Return(nil, nil)
	hevyMock.EXPECT().
		FetchWorkouts(gomock.Any(), (*time.Time)(nil)).
		Return([]hevy.WorkoutRecord{hevyWorkoutRecord("w1")}, nil)
	workoutsRepoMock.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(nil)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sync/{platform}", syncer.NewHandler(s).HandleSync).Methods("POST")

	req := httptest.NewRequest("POST", "/api/v1/sync/hevy?light=true", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var result syncer.SyncResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Skipped)
}

func TestHandler_HandleSync_UnknownPlatform(t *testing.T) {
	s := syncer.NewSyncer(syncer.NewSyncerParams{})
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sync/{platform}", syncer.NewHandler(s).HandleSync).Methods("POST")

	req := httptest.NewRequest("POST", "/api/v1/sync/fitbit", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleSync_NotConfigured(t *testing.T) {
	s := syncer.NewSyncer(syncer.NewSyncerParams{})
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sync/{platform}", syncer.NewHandler(s).HandleSync).Methods("POST")

	req := httptest.NewRequest("POST", "/api/v1/sync/strava", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
