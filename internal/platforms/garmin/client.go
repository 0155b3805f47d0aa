package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
)

const (
	DefaultBaseURL = "https://connectapi.garmin.com"

	activitiesPageSize = 50
)

// ActivityType is the nested Garmin activity type descriptor.
type ActivityType struct {
	TypeKey string `json:"typeKey"`
}

// ActivityRecord is a single activity as the Garmin Connect API returns it.
type ActivityRecord struct {
	ActivityID     int64        `json:"activityId"`
	ActivityName   string       `json:"activityName"`
	ActivityType   ActivityType `json:"activityType"`
	Description    string       `json:"description"`
	StartTimeGMT   string       `json:"startTimeGMT"`
	Duration       float64      `json:"duration"`
	MovingDuration *float64     `json:"movingDuration"`
	Distance       float64      `json:"distance"`
	AverageSpeed   *float64     `json:"averageSpeed"`
	MaxSpeed       *float64     `json:"maxSpeed"`
	Calories       float64      `json:"calories"`
	AvgPower       *float64     `json:"avgPower"`
	MaxPower       *float64     `json:"maxPower"`
	AverageHR      *float64     `json:"averageHR"`
	MaxHR          *float64     `json:"maxHR"`
	ElevationGain  float64      `json:"elevationGain"`
	MinElevation   *float64     `json:"minElevation"`
	MaxElevation   *float64     `json:"maxElevation"`
}

// DailyStatsRecord merges the Garmin daily summary and sleep detail for one day.
type DailyStatsRecord struct {
	CalendarDate            string `json:"calendarDate"`
	TotalSteps              *int   `json:"totalSteps"`
	TotalKilocalories       *int   `json:"totalKilocalories"`
	RestingHeartRate        *int   `json:"restingHeartRate"`
	MaxHeartRate            *int   `json:"maxHeartRate"`
	MinHeartRate            *int   `json:"minHeartRate"`
	AverageStressLevel      *int   `json:"averageStressLevel"`
	BodyBatteryHighestValue *int   `json:"bodyBatteryHighestValue"`
	BodyBatteryLowestValue  *int   `json:"bodyBatteryLowestValue"`
	SleepingSeconds         *int   `json:"sleepingSeconds"`

	// filled from the sleep endpoint
	DeepSleepSeconds  *int `json:"-"`
	LightSleepSeconds *int `json:"-"`
	RemSleepSeconds   *int `json:"-"`
	AwakeSleepSeconds *int `json:"-"`
}

type sleepDetail struct {
	DailySleepDTO struct {
		DeepSleepSeconds  *int `json:"deepSleepSeconds"`
		LightSleepSeconds *int `json:"lightSleepSeconds"`
		RemSleepSeconds   *int `json:"remSleepSeconds"`
		AwakeSleepSeconds *int `json:"awakeSleepSeconds"`
	} `json:"dailySleepDTO"`
}

type Client struct {
	baseURL     string
	accessToken string
	displayName string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken, displayName string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		displayName: displayName,
		httpClient:  httpClient,
	}
}

// FetchActivities returns activities started on or after `since`.
// A nil `since` fetches the complete history.
func (c *Client) FetchActivities(ctx context.Context, since *time.Time) (_ []ActivityRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "garminClient.fetchActivities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var activities []ActivityRecord
	start := 0
	for {
		url := fmt.Sprintf(
			"%s/activitylist-service/activities/search/activities?start=%d&limit=%d",
			c.baseURL, start, activitiesPageSize,
		)
		if since != nil {
			url += "&startDate=" + since.Format("2006-01-02")
		}

		var pageActivities []ActivityRecord
		if err := c.getJSON(ctx, url, &pageActivities); err != nil {
			return nil, fmt.Errorf("fetch activities [start %d]: %w", start, err)
		}
		if len(pageActivities) == 0 {
			break
		}

		activities = append(activities, pageActivities...)
		log.Tracef("garmin: fetched %d activities [start %d]", len(pageActivities), start)

		if len(pageActivities) < activitiesPageSize {
			break
		}
		start += activitiesPageSize
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))
	return activities, nil
}

// FetchDailyStats returns daily stats for each day in [from, to].
// A day that fails to fetch is logged and skipped, the rest of the
// range is still returned.
func (c *Client) FetchDailyStats(ctx context.Context, from, to time.Time) (_ []DailyStatsRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "garminClient.fetchDailyStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var records []DailyStatsRecord
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		record, err := c.fetchDay(ctx, day)
		if err != nil {
			log.Warnf("garmin: skipping day %s: %s", day.Format("2006-01-02"), err)
			continue
		}
		records = append(records, *record)
	}

	span.SetAttributes(attribute.Int("days.count", len(records)))
	return records, nil
}

func (c *Client) fetchDay(ctx context.Context, day time.Time) (*DailyStatsRecord, error) {
	date := day.Format("2006-01-02")

	var record DailyStatsRecord
	summaryURL := fmt.Sprintf(
		"%s/usersummary-service/usersummary/daily/%s?calendarDate=%s",
		c.baseURL, c.displayName, date,
	)
	if err := c.getJSON(ctx, summaryURL, &record); err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	if record.CalendarDate == "" {
		record.CalendarDate = date
	}

	var sleep sleepDetail
	sleepURL := fmt.Sprintf(
		"%s/wellness-service/wellness/dailySleepData/%s?date=%s",
		c.baseURL, c.displayName, date,
	)
	if err := c.getJSON(ctx, sleepURL, &sleep); err != nil {
		// sleep data is best effort, many days simply have none
		log.Tracef("garmin: no sleep data for %s: %s", date, err)
	} else {
		record.DeepSleepSeconds = sleep.DailySleepDTO.DeepSleepSeconds
		record.LightSleepSeconds = sleep.DailySleepDTO.LightSleepSeconds
		record.RemSleepSeconds = sleep.DailySleepDTO.RemSleepSeconds
		record.AwakeSleepSeconds = sleep.DailySleepDTO.AwakeSleepSeconds
	}

	return &record, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("garmin api status %d: %s", resp.StatusCode, string(respBytes))
	}

	if err := json.Unmarshal(respBytes, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
