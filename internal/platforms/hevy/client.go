package hevy

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
	"github.com/2beens/fitlake/pkg"
)

const (
	DefaultBaseURL = "https://api.hevyapp.com"

	workoutsPageSize  = 10
	templatesPageSize = 100
)

// SetRecord is a single set as the Hevy API returns it.
type SetRecord struct {
	Index           int      `json:"index"`
	Type            string   `json:"type"`
	WeightKg        *float64 `json:"weight_kg"`
	Reps            *int     `json:"reps"`
	DistanceMeters  *float64 `json:"distance_meters"`
	DurationSeconds *int     `json:"duration_seconds"`
	RPE             *float64 `json:"rpe"`
}

type ExerciseRecord struct {
	Index              int         `json:"index"`
	Title              string      `json:"title"`
	Notes              string      `json:"notes"`
	ExerciseTemplateID string      `json:"exercise_template_id"`
	Sets               []SetRecord `json:"sets"`
}

type WorkoutRecord struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Exercises   []ExerciseRecord `json:"exercises"`
}

type TemplateRecord struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Type                  string   `json:"type"`
	Equipment             string   `json:"equipment"`
	PrimaryMuscleGroup    string   `json:"primary_muscle_group"`
	SecondaryMuscleGroups []string `json:"secondary_muscle_groups"`
	IsCustom              bool     `json:"is_custom"`
}

type workoutsPage struct {
	Page      int             `json:"page"`
	PageCount int             `json:"page_count"`
	Workouts  []WorkoutRecord `json:"workouts"`
}

type templatesPage struct {
	Page              int              `json:"page"`
	PageCount         int              `json:"page_count"`
	ExerciseTemplates []TemplateRecord `json:"exercise_templates"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// FetchWorkouts returns workouts started strictly after `since`.
// Hevy returns workouts newest first, so paging stops early once an
// older workout is seen. A nil `since` fetches everything.
func (c *Client) FetchWorkouts(ctx context.Context, since *time.Time) (_ []WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "hevyClient.fetchWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var workouts []WorkoutRecord
	page := 1
	for {
		var pageResp workoutsPage
		url := fmt.Sprintf("%s/v1/workouts?page=%d&pageSize=%d", c.baseURL, page, workoutsPageSize)
		if err := c.getJSON(ctx, url, &pageResp); err != nil {
			return nil, fmt.Errorf("fetch workouts page %d: %w", page, err)
		}

		reachedCursor := false
		for _, w := range pageResp.Workouts {
			if since != nil {
				startTime, err := pkg.ParseTimestamp(w.StartTime)
				if err == nil && !startTime.After(*since) {
					reachedCursor = true
					break
				}
			}
			workouts = append(workouts, w)
		}

		log.Tracef("hevy: workouts page %d/%d fetched", pageResp.Page, pageResp.PageCount)

		if reachedCursor || page >= pageResp.PageCount || len(pageResp.Workouts) == 0 {
			break
		}
		page++
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

// FetchExerciseTemplates returns the full exercise template catalog.
func (c *Client) FetchExerciseTemplates(ctx context.Context) (_ []TemplateRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "hevyClient.fetchExerciseTemplates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var templates []TemplateRecord
	page := 1
	for {
		var pageResp templatesPage
		url := fmt.Sprintf("%s/v1/exercise_templates?page=%d&pageSize=%d", c.baseURL, page, templatesPageSize)
		if err := c.getJSON(ctx, url, &pageResp); err != nil {
			return nil, fmt.Errorf("fetch exercise templates page %d: %w", page, err)
		}

		templates = append(templates, pageResp.ExerciseTemplates...)

		if page >= pageResp.PageCount || len(pageResp.ExerciseTemplates) == 0 {
			break
		}
		page++
	}

	span.SetAttributes(attribute.Int("templates.count", len(templates)))
	return templates, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.apiKey)
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
		return fmt.Errorf("hevy api status %d: %s", resp.StatusCode, string(respBytes))
	}

	if err := json.Unmarshal(respBytes, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
