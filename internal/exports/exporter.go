package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/activities"
	"github.com/2beens/fitlake/internal/dailystats"
	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/internal/workouts"
	"github.com/2beens/fitlake/pkg"
)

type workoutsSource interface {
	ListAll(ctx context.Context, params workouts.WorkoutParams) ([]workouts.Workout, error)
}

type activitiesSource interface {
	ListAll(ctx context.Context, params activities.ActivityParams) ([]activities.Activity, error)
}

type dailyStatsSource interface {
	List(ctx context.Context, from, to time.Time) ([]dailystats.DailyStats, error)
}

// Exporter renders the stored data as CSV and keeps a timestamped copy of
// every export on disk.
type Exporter struct {
	exportsDir string

	workouts   workoutsSource
	activities activitiesSource
	dailyStats dailyStatsSource

	now func() time.Time
}

type NewExporterParams struct {
	DataDir        string
	WorkoutsRepo   workoutsSource
	ActivitiesRepo activitiesSource
	DailyStatsRepo dailyStatsSource
}

func NewExporter(params NewExporterParams) (*Exporter, error) {
	exportsDir := filepath.Join(params.DataDir, "exports")
	exists, err := pkg.PathExists(exportsDir, true)
	if err != nil {
		return nil, fmt.Errorf("check exports dir: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(exportsDir, 0o755); err != nil {
			return nil, fmt.Errorf("create exports dir: %w", err)
		}
	}

	return &Exporter{
		exportsDir: exportsDir,
		workouts:   params.WorkoutsRepo,
		activities: params.ActivitiesRepo,
		dailyStats: params.DailyStatsRepo,
		now:        time.Now,
	}, nil
}

// ExportWorkouts writes one row per set, workout fields repeated.
func (e *Exporter) ExportWorkouts(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exports.workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	allWorkouts, err := e.workouts.ListAll(ctx, workouts.WorkoutParams{})
	if err != nil {
		return nil, err
	}

	records := [][]string{{
		"workout_id", "platform", "external_id", "title", "start_time", "end_time",
		"exercise", "template_id", "set_index", "set_type", "weight_kg", "reps", "rpe",
	}}
	for _, w := range allWorkouts {
		for _, ex := range w.Exercises {
			for _, s := range ex.Sets {
				records = append(records, []string{
					strconv.Itoa(w.ID), w.Platform, w.ExternalID, w.Title,
					w.StartTime.Format(time.RFC3339), w.EndTime.Format(time.RFC3339),
					ex.Title, ex.TemplateID,
					strconv.Itoa(s.SetIndex), s.SetType,
					formatFloatPtr(s.WeightKg), formatIntPtr(s.Reps), formatFloatPtr(s.RPE),
				})
			}
		}
	}

	span.SetAttributes(attribute.Int("rows", len(records)-1))
	return e.renderAndCache("workouts", records)
}

func (e *Exporter) ExportActivities(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exports.activities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	allActivities, err := e.activities.ListAll(ctx, activities.ActivityParams{})
	if err != nil {
		return nil, err
	}

	records := [][]string{{
		"id", "platform", "external_id", "name", "type", "sport_type", "description", "start_time",
		"duration_seconds", "moving_time_seconds", "distance_meters", "avg_speed", "max_speed",
		"calories", "avg_watts", "max_watts", "avg_heart_rate", "max_heart_rate",
		"elevation_gain_meters", "elevation_high", "elevation_low",
	}}
	for _, a := range allActivities {
		records = append(records, []string{
			strconv.Itoa(a.ID), a.Platform, a.ExternalID, a.Name, a.ActivityType,
			a.SportType, a.Description,
			a.StartTime.Format(time.RFC3339),
			strconv.Itoa(a.DurationSeconds),
			formatIntPtr(a.MovingTimeSeconds),
			strconv.FormatFloat(a.DistanceMeters, 'f', -1, 64),
			formatFloatPtr(a.AverageSpeed), formatFloatPtr(a.MaxSpeed),
			strconv.Itoa(a.Calories),
			formatFloatPtr(a.AverageWatts), formatFloatPtr(a.MaxWatts),
			formatFloatPtr(a.AverageHeartRate), formatFloatPtr(a.MaxHeartRate),
			strconv.FormatFloat(a.ElevationGainMeters, 'f', -1, 64),
			formatFloatPtr(a.ElevationHigh), formatFloatPtr(a.ElevationLow),
		})
	}

	span.SetAttributes(attribute.Int("rows", len(records)-1))
	return e.renderAndCache("activities", records)
}

func (e *Exporter) ExportDailyStats(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exports.dailystats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := e.now().UTC()
	stats, err := e.dailyStats.List(ctx, now.AddDate(-5, 0, 0), now)
	if err != nil {
		return nil, err
	}

	records := [][]string{{
		"date", "platform", "steps", "calories_burned", "resting_heart_rate",
		"max_heart_rate", "min_heart_rate", "stress_avg", "body_battery_high", "body_battery_low", "sleep_seconds",
	}}
	for _, s := range stats {
		records = append(records, []string{
			s.Date.Format("2006-01-02"), s.Platform,
			formatIntPtr(s.Steps), formatIntPtr(s.CaloriesBurned), formatIntPtr(s.RestingHeartRate),
			formatIntPtr(s.MaxHeartRate), formatIntPtr(s.MinHeartRate), formatIntPtr(s.StressAvg),
			formatIntPtr(s.BodyBatteryHigh), formatIntPtr(s.BodyBatteryLow), formatIntPtr(s.SleepSeconds),
		})
	}

	span.SetAttributes(attribute.Int("rows", len(records)-1))
	return e.renderAndCache("daily_stats", records)
}

// ExportSleep writes the sleep stage columns only.
func (e *Exporter) ExportSleep(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exports.sleep")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := e.now().UTC()
	stats, err := e.dailyStats.List(ctx, now.AddDate(-5, 0, 0), now)
	if err != nil {
		return nil, err
	}

	records := [][]string{{
		"date", "sleep_seconds", "deep_sleep_seconds", "light_sleep_seconds", "rem_sleep_seconds", "awake_seconds",
	}}
	for _, s := range stats {
		if s.SleepSeconds == nil {
			continue
		}
		records = append(records, []string{
			s.Date.Format("2006-01-02"),
			formatIntPtr(s.SleepSeconds), formatIntPtr(s.DeepSleepSeconds), formatIntPtr(s.LightSleepSeconds),
			formatIntPtr(s.RemSleepSeconds), formatIntPtr(s.AwakeSeconds),
		})
	}

	span.SetAttributes(attribute.Int("rows", len(records)-1))
	return e.renderAndCache("sleep", records)
}

func (e *Exporter) renderAndCache(entity string, records [][]string) ([]byte, error) {
	fileName := fmt.Sprintf("%s_%s.csv", entity, e.now().UTC().Format("20060102T150405"))
	filePath := filepath.Join(e.exportsDir, fileName)

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write export file: %w", err)
	}

	csvBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read back export file: %w", err)
	}

	log.Debugf("exported %d %s rows to %s", len(records)-1, entity, filePath)
	return csvBytes, nil
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
