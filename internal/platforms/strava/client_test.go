package strava_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/2beens/fitlake/internal/platforms/strava"
)

type staticTokenSource struct {
	token *oauth2.Token
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, nil
}

func TestClient_FetchActivities(t *testing.T) {
	var receivedAfter []string
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		receivedAfter = append(receivedAfter, r.URL.Query().Get("after"))

		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[
				{"id":101,"name":"Morning Run","sport_type":"Run","start_date":"2024-05-01T07:00:00Z","elapsed_time":1800,"distance":5000},
				{"id":102,"name":"Evening Ride","sport_type":"Ride","start_date":"2024-05-02T18:00:00Z","elapsed_time":3600,"distance":20000}
			]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer testServer.Close()

	tokenSource := &staticTokenSource{token: &oauth2.Token{AccessToken: "test-access-token"}}
	client := strava.NewClient(testServer.URL, tokenSource, testServer.Client())

	since := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	activities, err := client.FetchActivities(context.Background(), &since)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, int64(101), activities[0].ID)
	assert.Equal(t, "Run", activities[0].SportType)

	require.NotEmpty(t, receivedAfter)
	assert.Equal(t, fmt.Sprintf("%d", since.Unix()), receivedAfter[0])
}

func TestClient_FetchActivities_APIError(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer testServer.Close()

	tokenSource := &staticTokenSource{token: &oauth2.Token{AccessToken: "test-access-token"}}
	client := strava.NewClient(testServer.URL, tokenSource, testServer.Client())

	_, err := client.FetchActivities(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
