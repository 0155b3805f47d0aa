package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
)

const (
	DefaultBaseURL = "https://www.strava.com/api/v3"

	activitiesPageSize = 100
	// short pause between pages, Strava rate limits are quite tight
	interPageDelay = 500 * time.Millisecond
)

// ActivityRecord is a single activity as the Strava API returns it.
type ActivityRecord struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	SportType          string   `json:"sport_type"`
	Type               string   `json:"type"`
	Description        string   `json:"description"`
	StartDate          string   `json:"start_date"`
	ElapsedTime        int      `json:"elapsed_time"`
	MovingTime         int      `json:"moving_time"`
	Distance           float64  `json:"distance"`
	AverageSpeed       *float64 `json:"average_speed"`
	MaxSpeed           *float64 `json:"max_speed"`
	Calories           float64  `json:"calories"`
	Kilojoules         *float64 `json:"kilojoules"`
	AverageWatts       *float64 `json:"average_watts"`
	MaxWatts           *float64 `json:"max_watts"`
	AverageHeartrate   *float64 `json:"average_heartrate"`
	MaxHeartrate       *float64 `json:"max_heartrate"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	ElevHigh           *float64 `json:"elev_high"`
	ElevLow            *float64 `json:"elev_low"`
}

type Client struct {
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	pageDelay   time.Duration
}

func NewClient(baseURL string, tokenSource oauth2.TokenSource, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		tokenSource: tokenSource,
		httpClient:  httpClient,
		pageDelay:   interPageDelay,
	}
}

// FetchActivities returns activities started strictly after `since`,
// oldest first as Strava returns them for the `after` param.
// A nil `since` fetches the complete history.
func (c *Client) FetchActivities(ctx context.Context, since *time.Time) (_ []ActivityRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stravaClient.fetchActivities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, err
	}

	var activities []ActivityRecord
	page := 1
	for {
		url := fmt.Sprintf("%s/athlete/activities?page=%d&per_page=%d", c.baseURL, page, activitiesPageSize)
		if since != nil {
			url += fmt.Sprintf("&after=%d", since.Unix())
		}

		pageActivities, err := c.getActivitiesPage(ctx, url, token.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("fetch activities page %d: %w", page, err)
		}
		if len(pageActivities) == 0 {
			break
		}

		activities = append(activities, pageActivities...)
		log.Tracef("strava: activities page %d fetched, %d records", page, len(pageActivities))

		if len(pageActivities) < activitiesPageSize {
			break
		}

		page++
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))
	return activities, nil
}

func (c *Client) getActivitiesPage(ctx context.Context, url, accessToken string) ([]ActivityRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("strava api status %d: %s", resp.StatusCode, string(respBytes))
	}

	var activities []ActivityRecord
	if err := json.Unmarshal(respBytes, &activities); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return activities, nil
}
