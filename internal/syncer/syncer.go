package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/2beens/fitlake/internal/activities"
	"github.com/2beens/fitlake/internal/dailystats"
	"github.com/2beens/fitlake/internal/platforms/garmin"
	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/internal/platforms/strava"
	"github.com/2beens/fitlake/internal/telemetry/metrics"
	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/internal/templates"
	"github.com/2beens/fitlake/internal/workouts"
)

// dailyStatsLookback is how far back a full daily stats sync reaches.
const dailyStatsLookback = 365

var (
	ErrHevyNotConfigured   = errors.New("hevy client not configured")
	ErrStravaNotConfigured = errors.New("strava client not configured")
	ErrGarminNotConfigured = errors.New("garmin client not configured")
)

// SyncResult counts the records written and the malformed ones skipped
// during one sync run.
type SyncResult struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

func (r *SyncResult) add(other SyncResult) {
	r.Synced += other.Synced
	r.Skipped += other.Skipped
}

//go:generate mockgen -source=$GOFILE -destination=syncer_mocks_test.go -package=syncer_test

type hevyClient interface {
	FetchWorkouts(ctx context.Context, since *time.Time) ([]hevy.WorkoutRecord, error)
	FetchExerciseTemplates(ctx context.Context) ([]hevy.TemplateRecord, error)
}

type stravaClient interface {
	FetchActivities(ctx context.Context, since *time.Time) ([]strava.ActivityRecord, error)
}

type garminClient interface {
	FetchActivities(ctx context.Context, since *time.Time) ([]garmin.ActivityRecord, error)
	FetchDailyStats(ctx context.Context, from, to time.Time) ([]garmin.DailyStatsRecord, error)
}

type workoutsRepo interface {
	Upsert(ctx context.Context, workout workouts.Workout) error
	LastStartTime(ctx context.Context, platform string) (*time.Time, error)
}

type templatesRepo interface {
	Upsert(ctx context.Context, template templates.ExerciseTemplate) error
}

type activitiesRepo interface {
	Upsert(ctx context.Context, activity activities.Activity) error
	LastStartTime(ctx context.Context, platform string) (*time.Time, error)
}

type dailyStatsRepo interface {
	Upsert(ctx context.Context, stats dailystats.DailyStats) error
	LastDate(ctx context.Context, platform string) (*time.Time, error)
}

// Syncer pulls data from the configured platforms and writes it to the
// repos. Malformed records are logged and skipped, one bad record never
// fails a whole run.
type Syncer struct {
	hevyClient   hevyClient
	stravaClient stravaClient
	garminClient garminClient

	workoutsRepo   workoutsRepo
	templatesRepo  templatesRepo
	activitiesRepo activitiesRepo
	dailyStatsRepo dailyStatsRepo

	metrics *metrics.Manager
	now     func() time.Time
}

type NewSyncerParams struct {
	HevyClient   hevyClient
	StravaClient stravaClient
	GarminClient garminClient

	WorkoutsRepo   workoutsRepo
	TemplatesRepo  templatesRepo
	ActivitiesRepo activitiesRepo
	DailyStatsRepo dailyStatsRepo

	Metrics *metrics.Manager
}

func NewSyncer(params NewSyncerParams) *Syncer {
	return &Syncer{
		hevyClient:     params.HevyClient,
		stravaClient:   params.StravaClient,
		garminClient:   params.GarminClient,
		workoutsRepo:   params.WorkoutsRepo,
		templatesRepo:  params.TemplatesRepo,
		activitiesRepo: params.ActivitiesRepo,
		dailyStatsRepo: params.DailyStatsRepo,
		metrics:        params.Metrics,
		now:            time.Now,
	}
}

// SyncAll runs all configured platform syncs, platforms that fail do not
// stop the others.
func (s *Syncer) SyncAll(ctx context.Context, full bool) (SyncResult, error) {
	var result SyncResult
	var errs error

	if s.hevyClient != nil {
		hevyResult, err := s.SyncHevy(ctx, full)
		errs = multierr.Append(errs, err)
		result.add(hevyResult)
	}
	if s.stravaClient != nil {
		stravaResult, err := s.SyncStrava(ctx, full)
		errs = multierr.Append(errs, err)
		result.add(stravaResult)
	}
	if s.garminClient != nil {
		garminResult, err := s.SyncGarmin(ctx, full)
		errs = multierr.Append(errs, err)
		result.add(garminResult)
	}

	return result, errs
}

// SyncHevy refreshes the exercise template catalog, then the workouts.
func (s *Syncer) SyncHevy(ctx context.Context, full bool) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.hevy")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.hevyClient == nil {
		return SyncResult{}, ErrHevyNotConfigured
	}

	defer s.observeSyncRun("hevy", full)()

	result, err := s.SyncHevyTemplates(ctx)
	if err != nil {
		return result, err
	}

	workoutsResult, err := s.SyncHevyWorkouts(ctx, full)
	result.add(workoutsResult)
	return result, err
}

func (s *Syncer) SyncHevyTemplates(ctx context.Context) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.hevy.templates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.hevyClient == nil {
		return SyncResult{}, ErrHevyNotConfigured
	}

	records, err := s.hevyClient.FetchExerciseTemplates(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch hevy exercise templates: %w", err)
	}

	var result SyncResult
	for _, rec := range records {
		template, err := templates.FromHevyRecord(rec)
		if err != nil {
			log.Warnf("hevy: skipping exercise template: %s", err)
			result.Skipped++
			continue
		}
		if err := s.templatesRepo.Upsert(ctx, *template); err != nil {
			log.Errorf("hevy: store exercise template %s: %s", template.ExternalID, err)
			result.Skipped++
			continue
		}
		result.Synced++
	}

	s.countRecords("hevy", "exercise_templates", result)
	span.SetAttributes(attribute.Int("synced", result.Synced))
	return result, nil
}

func (s *Syncer) SyncHevyWorkouts(ctx context.Context, full bool) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.hevy.workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.hevyClient == nil {
		return SyncResult{}, ErrHevyNotConfigured
	}

	var since *time.Time
	if !full {
		since, err = s.workoutsRepo.LastStartTime(ctx, "hevy")
		if err != nil {
			return SyncResult{}, fmt.Errorf("get hevy workouts cursor: %w", err)
		}
	}

	records, err := s.hevyClient.FetchWorkouts(ctx, since)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch hevy workouts: %w", err)
	}

	var result SyncResult
	for _, rec := range records {
		workout, err := workouts.FromHevyRecord(rec)
		if err != nil {
			log.Warnf("hevy: skipping workout: %s", err)
			result.Skipped++
			continue
		}
		if err := s.workoutsRepo.Upsert(ctx, *workout); err != nil {
			log.Errorf("hevy: store workout %s: %s", workout.ExternalID, err)
			result.Skipped++
			continue
		}
		result.Synced++
	}

	s.countRecords("hevy", "workouts", result)
	span.SetAttributes(attribute.Int("synced", result.Synced))
	return result, nil
}

// SyncStrava pulls activities started after the stored cursor.
func (s *Syncer) SyncStrava(ctx context.Context, full bool) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.strava")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.stravaClient == nil {
		return SyncResult{}, ErrStravaNotConfigured
	}

	defer s.observeSyncRun("strava", full)()

	var since *time.Time
	if !full {
		since, err = s.activitiesRepo.LastStartTime(ctx, "strava")
		if err != nil {
			return SyncResult{}, fmt.Errorf("get strava activities cursor: %w", err)
		}
	}

	records, err := s.stravaClient.FetchActivities(ctx, since)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch strava activities: %w", err)
	}

	var result SyncResult
	for _, rec := range records {
		rawData, _ := json.Marshal(rec)
		activity, err := activities.FromStravaRecord(rec, rawData)
		if err != nil {
			log.Warnf("strava: skipping activity: %s", err)
			result.Skipped++
			continue
		}
		if err := s.activitiesRepo.Upsert(ctx, *activity); err != nil {
			log.Errorf("strava: store activity %s: %s", activity.ExternalID, err)
			result.Skipped++
			continue
		}
		result.Synced++
	}

	s.countRecords("strava", "activities", result)
	span.SetAttributes(attribute.Int("synced", result.Synced))
	return result, nil
}

// SyncGarmin pulls activities and daily wellness stats.
func (s *Syncer) SyncGarmin(ctx context.Context, full bool) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.garmin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.garminClient == nil {
		return SyncResult{}, ErrGarminNotConfigured
	}

	defer s.observeSyncRun("garmin", full)()

	result, err := s.SyncGarminActivities(ctx, full)
	if err != nil {
		return result, err
	}

	statsResult, err := s.SyncGarminDailyStats(ctx, full)
	result.add(statsResult)
	return result, err
}

func (s *Syncer) SyncGarminActivities(ctx context.Context, full bool) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.garmin.activities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.garminClient == nil {
		return SyncResult{}, ErrGarminNotConfigured
	}

	var since *time.Time
	if !full {
		since, err = s.activitiesRepo.LastStartTime(ctx, "garmin")
		if err != nil {
			return SyncResult{}, fmt.Errorf("get garmin activities cursor: %w", err)
		}
	}

	records, err := s.garminClient.FetchActivities(ctx, since)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch garmin activities: %w", err)
	}

	var result SyncResult
	for _, rec := range records {
		rawData, _ := json.Marshal(rec)
		activity, err := activities.FromGarminRecord(rec, rawData)
		if err != nil {
			log.Warnf("garmin: skipping activity: %s", err)
			result.Skipped++
			continue
		}
		// garmin has no "after" filter precise to the second, drop the
		// ones already stored
		if since != nil && !activity.StartTime.After(*since) {
			continue
		}
		if err := s.activitiesRepo.Upsert(ctx, *activity); err != nil {
			log.Errorf("garmin: store activity %s: %s", activity.ExternalID, err)
			result.Skipped++
			continue
		}
		result.Synced++
	}

	s.countRecords("garmin", "activities", result)
	span.SetAttributes(attribute.Int("synced", result.Synced))
	return result, nil
}

func (s *Syncer) SyncGarminDailyStats(ctx context.Context, full bool) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.garmin.dailystats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.garminClient == nil {
		return SyncResult{}, ErrGarminNotConfigured
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -dailyStatsLookback)
	if !full {
		lastDate, err := s.dailyStatsRepo.LastDate(ctx, "garmin")
		if err != nil {
			return SyncResult{}, fmt.Errorf("get garmin daily stats cursor: %w", err)
		}
		if lastDate != nil {
			// re-fetch the newest stored day, it was likely incomplete
			from = *lastDate
		}
	}

	records, err := s.garminClient.FetchDailyStats(ctx, from, today)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch garmin daily stats: %w", err)
	}

	var result SyncResult
	for _, rec := range records {
		rawData, _ := json.Marshal(rec)
		stats, err := dailystats.FromGarminRecord(rec, rawData)
		if err != nil {
			log.Warnf("garmin: skipping daily stats: %s", err)
			result.Skipped++
			continue
		}
		if err := s.dailyStatsRepo.Upsert(ctx, *stats); err != nil {
			log.Errorf("garmin: store daily stats %s: %s", stats.ExternalID, err)
			result.Skipped++
			continue
		}
		result.Synced++
	}

	s.countRecords("garmin", "daily_stats", result)
	span.SetAttributes(attribute.Int("synced", result.Synced))
	return result, nil
}

func (s *Syncer) countRecords(platform, entity string, result SyncResult) {
	if s.metrics == nil {
		return
	}
	labels := prometheus.Labels{"platform": platform, "entity": entity}
	s.metrics.CounterSyncedRecords.With(labels).Add(float64(result.Synced))
	s.metrics.CounterSkippedRecords.With(labels).Add(float64(result.Skipped))
}

func (s *Syncer) observeSyncRun(platform string, full bool) func() {
	if s.metrics == nil {
		return func() {}
	}

	mode := "incremental"
	if full {
		mode = "full"
	}
	s.metrics.CounterSyncRuns.With(prometheus.Labels{"platform": platform, "mode": mode}).Inc()

	begin := time.Now()
	return func() {
		s.metrics.HistogramSyncDuration.
			With(prometheus.Labels{"platform": platform}).
			Observe(time.Since(begin).Seconds())
	}
}
