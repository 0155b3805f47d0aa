package insights_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/insights"
	"github.com/2beens/fitlake/internal/workouts"
)

type analyzerMock struct {
	analysis *workouts.EngagementAnalysis
}

func (m *analyzerMock) AnalyzePeriod(_ context.Context, _ string, _, _ time.Time) (*workouts.EngagementAnalysis, error) {
	return m.analysis, nil
}

type recoveryMock struct {
	lastRecoveryDay time.Time
	recoveryDays    int
}

func (m *recoveryMock) LastRecoveryDay(_ context.Context, _ time.Time) (time.Time, error) {
	return m.lastRecoveryDay, nil
}

func (m *recoveryMock) CountRecoveryDays(_ context.Context, _, _ time.Time) (int, []time.Time, error) {
	return m.recoveryDays, nil, nil
}

func TestService_GenerateInsights(t *testing.T) {
	var receivedBody string
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		bodyBytes, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		receivedBody = string(bodyBytes)

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"More legs, fewer bench days."}}]}`)
	}))
	defer testServer.Close()

	client := insights.NewClient(testServer.URL, "test-api-key", "gpt-4o-mini", testServer.Client())
	service := insights.NewService(
		client,
		&analyzerMock{analysis: &workouts.EngagementAnalysis{
			Engagement:       map[string]float64{"chest": 12, "quadriceps": 2},
			TotalSets:        20,
			WorkoutsAnalyzed: 6,
		}},
		&recoveryMock{
			lastRecoveryDay: time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC),
			recoveryDays:    4,
		},
	)

	result, err := service.GenerateInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "More legs, fewer bench days.", result)

	assert.Contains(t, receivedBody, "chest")
	assert.Contains(t, receivedBody, "2024-05-08")
}

func TestService_GenerateInsights_Disabled(t *testing.T) {
	service := insights.NewService(nil, &analyzerMock{}, &recoveryMock{})

	_, err := service.GenerateInsights(context.Background())
	require.ErrorIs(t, err, insights.ErrInsightsDisabled)
}

func TestService_GenerateInsights_APIError(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer testServer.Close()

	client := insights.NewClient(testServer.URL, "test-api-key", "gpt-4o-mini", testServer.Client())
	service := insights.NewService(client, &analyzerMock{analysis: &workouts.EngagementAnalysis{
		Engagement: map[string]float64{},
	}}, &recoveryMock{})

	_, err := service.GenerateInsights(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
