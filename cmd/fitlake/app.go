package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal/activities"
	"github.com/2beens/fitlake/internal/config"
	"github.com/2beens/fitlake/internal/dailystats"
	"github.com/2beens/fitlake/internal/db"
	"github.com/2beens/fitlake/internal/exports"
	"github.com/2beens/fitlake/internal/platforms/garmin"
	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/internal/platforms/strava"
	"github.com/2beens/fitlake/internal/syncer"
	"github.com/2beens/fitlake/internal/telemetry/metrics"
	"github.com/2beens/fitlake/internal/templates"
	"github.com/2beens/fitlake/internal/workouts"
)

// app wires the repos and the syncer for CLI usage, going straight to
// the database instead of through the HTTP API.
type app struct {
	cfg    *config.Config
	dbPool *pgxpool.Pool

	workoutsRepo   *workouts.Repo
	templatesRepo  *templates.Repo
	activitiesRepo *activities.Repo
	dailyStatsRepo *dailystats.Repo

	analyzer         *workouts.Analyzer
	recoveryAnalyzer *workouts.RecoveryAnalyzer
	syncer           *syncer.Syncer
	exporter         *exports.Exporter
}

func newApp(ctx context.Context, env, configPath string) (*app, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("FITLAKE_DB_PASSWORD"),
		TracingEnabled: false,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ensure db schema: %w", err)
	}

	workoutsRepo := workouts.NewRepo(dbPool)
	templatesRepo := templates.NewRepo(dbPool)
	activitiesRepo := activities.NewRepo(dbPool)
	dailyStatsRepo := dailystats.NewRepo(dbPool)

	httpClient := &http.Client{Timeout: time.Minute}

	syncerParams := syncer.NewSyncerParams{
		WorkoutsRepo:   workoutsRepo,
		TemplatesRepo:  templatesRepo,
		ActivitiesRepo: activitiesRepo,
		DailyStatsRepo: dailyStatsRepo,
		Metrics:        metrics.NewLocalManager(),
	}

	if hevyAPIKey := os.Getenv("HEVY_API_KEY"); hevyAPIKey != "" {
		syncerParams.HevyClient = hevy.NewClient(hevy.DefaultBaseURL, hevyAPIKey, httpClient)
	}

	stravaClientID := os.Getenv("STRAVA_CLIENT_ID")
	stravaRefreshToken := os.Getenv("STRAVA_REFRESH_TOKEN")
	if stravaClientID != "" && stravaRefreshToken != "" {
		tokenProvider, err := strava.NewTokenProvider(
			ctx,
			stravaClientID,
			os.Getenv("STRAVA_CLIENT_SECRET"),
			stravaRefreshToken,
			cfg.DataDir,
		)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("new strava token provider: %w", err)
		}
		syncerParams.StravaClient = strava.NewClient(strava.DefaultBaseURL, tokenProvider, httpClient)
	}

	garminAccessToken := os.Getenv("GARMIN_ACCESS_TOKEN")
	garminDisplayName := os.Getenv("GARMIN_DISPLAY_NAME")
	if garminAccessToken != "" && garminDisplayName != "" {
		syncerParams.GarminClient = garmin.NewClient(
			garmin.DefaultBaseURL,
			garminAccessToken,
			garminDisplayName,
			httpClient,
		)
	}

	exporter, err := exports.NewExporter(exports.NewExporterParams{
		DataDir:        cfg.DataDir,
		WorkoutsRepo:   workoutsRepo,
		ActivitiesRepo: activitiesRepo,
		DailyStatsRepo: dailyStatsRepo,
	})
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("new exporter: %w", err)
	}

	return &app{
		cfg:    cfg,
		dbPool: dbPool,

		workoutsRepo:   workoutsRepo,
		templatesRepo:  templatesRepo,
		activitiesRepo: activitiesRepo,
		dailyStatsRepo: dailyStatsRepo,

		analyzer:         workouts.NewAnalyzer(workoutsRepo, templatesRepo),
		recoveryAnalyzer: workouts.NewRecoveryAnalyzer(workoutsRepo, activitiesRepo),
		syncer:           syncer.NewSyncer(syncerParams),
		exporter:         exporter,
	}, nil
}

func (a *app) close() {
	if a.dbPool != nil {
		a.dbPool.Close()
	}
}

func activityParams(platform string, from, to time.Time) activities.ActivityParams {
	return activities.ActivityParams{
		Platform: platform,
		From:     &from,
		To:       &to,
	}
}

func setupCLILogging() {
	log.SetLevel(log.WarnLevel)
	log.SetOutput(os.Stderr)
}
