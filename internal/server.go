package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitlake/internal/activities"
	"github.com/2beens/fitlake/internal/config"
	"github.com/2beens/fitlake/internal/dailystats"
	"github.com/2beens/fitlake/internal/db"
	"github.com/2beens/fitlake/internal/exports"
	"github.com/2beens/fitlake/internal/insights"
	"github.com/2beens/fitlake/internal/middleware"
	"github.com/2beens/fitlake/internal/platforms/garmin"
	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/internal/platforms/strava"
	"github.com/2beens/fitlake/internal/syncer"
	"github.com/2beens/fitlake/internal/telemetry/metrics"
	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/internal/templates"
	"github.com/2beens/fitlake/internal/workouts"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	apiKey            string // used by clients of the fitlake api
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	workoutsRepo   *workouts.Repo
	templatesRepo  *templates.Repo
	activitiesRepo *activities.Repo
	dailyStatsRepo *dailystats.Repo

	analyzer         *workouts.Analyzer
	recoveryAnalyzer *workouts.RecoveryAnalyzer

	syncer          *syncer.Syncer
	exporter        *exports.Exporter
	insightsService *insights.Service
	syncCron        *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string

	APIKey     string
	DBPassword string

	HevyAPIKey         string
	StravaClientID     string
	StravaClientSecret string
	StravaRefreshToken string
	GarminAccessToken  string
	GarminDisplayName  string
	OpenAIAPIKey       string

	TracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("ensure db schema: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitlake", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	otelShutdown, err := tracing.Setup(params.TracingEnabled, "fitlake-backend")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	workoutsRepo := workouts.NewRepo(dbPool)
	templatesRepo := templates.NewRepo(dbPool)
	activitiesRepo := activities.NewRepo(dbPool)
	dailyStatsRepo := dailystats.NewRepo(dbPool)

	var hevyClient *hevy.Client
	if params.HevyAPIKey != "" {
		hevyClient = hevy.NewClient(hevy.DefaultBaseURL, params.HevyAPIKey, tracedHttpClient)
	}

	var stravaClient *strava.Client
	if params.StravaClientID != "" && params.StravaRefreshToken != "" {
		tokenProvider, err := strava.NewTokenProvider(
			ctx,
			params.StravaClientID,
			params.StravaClientSecret,
			params.StravaRefreshToken,
			params.Config.DataDir,
		)
		if err != nil {
			return nil, fmt.Errorf("new strava token provider: %w", err)
		}
		stravaClient = strava.NewClient(strava.DefaultBaseURL, tokenProvider, tracedHttpClient)
	}

	var garminClient *garmin.Client
	if params.GarminAccessToken != "" && params.GarminDisplayName != "" {
		garminClient = garmin.NewClient(
			garmin.DefaultBaseURL,
			params.GarminAccessToken,
			params.GarminDisplayName,
			tracedHttpClient,
		)
	}

	syncerParams := syncer.NewSyncerParams{
		WorkoutsRepo:   workoutsRepo,
		TemplatesRepo:  templatesRepo,
		ActivitiesRepo: activitiesRepo,
		DailyStatsRepo: dailyStatsRepo,
		Metrics:        metricsManager,
	}
	if hevyClient != nil {
		syncerParams.HevyClient = hevyClient
	}
	if stravaClient != nil {
		syncerParams.StravaClient = stravaClient
	}
	if garminClient != nil {
		syncerParams.GarminClient = garminClient
	}

	exporter, err := exports.NewExporter(exports.NewExporterParams{
		DataDir:        params.Config.DataDir,
		WorkoutsRepo:   workoutsRepo,
		ActivitiesRepo: activitiesRepo,
		DailyStatsRepo: dailyStatsRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("new exporter: %w", err)
	}

	analyzer := workouts.NewAnalyzer(workoutsRepo, templatesRepo)
	recoveryAnalyzer := workouts.NewRecoveryAnalyzer(workoutsRepo, activitiesRepo)

	var insightsService *insights.Service
	if params.Config.InsightsEnabled && params.OpenAIAPIKey != "" {
		insightsService = insights.NewService(
			insights.NewClient(
				params.Config.InsightsBaseURL,
				params.OpenAIAPIKey,
				params.Config.InsightsModel,
				tracedHttpClient,
			),
			analyzer,
			recoveryAnalyzer,
		)
	} else {
		insightsService = insights.NewService(nil, analyzer, recoveryAnalyzer)
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		apiKey:      params.APIKey,
		versionInfo: params.VersionInfo,

		workoutsRepo:   workoutsRepo,
		templatesRepo:  templatesRepo,
		activitiesRepo: activitiesRepo,
		dailyStatsRepo: dailyStatsRepo,

		analyzer:         analyzer,
		recoveryAnalyzer: recoveryAnalyzer,

		syncer:          syncer.NewSyncer(syncerParams),
		exporter:        exporter,
		insightsService: insightsService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitlake-router"))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	api := r.PathPrefix("/api/v1").Subrouter()

	workoutsHandler := workouts.NewHandler(workouts.NewHandlerParams{
		Repo:             s.workoutsRepo,
		Analyzer:         s.analyzer,
		RecoveryAnalyzer: s.recoveryAnalyzer,
		CacheSizeMB:      s.config.CacheSizeMB,
		CacheExpireSecs:  s.config.CacheExpireSecs,
	})
	api.HandleFunc("/workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	api.HandleFunc("/workouts/muscle-distribution", workoutsHandler.HandleDistribution).Methods("GET", "OPTIONS").Name("muscle-distribution")
	api.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	api.HandleFunc("/workouts/{id}/muscles", workoutsHandler.HandleWorkoutMuscles).Methods("GET", "OPTIONS").Name("workout-muscles")
	api.HandleFunc("/recovery", workoutsHandler.HandleRecovery).Methods("GET", "OPTIONS").Name("recovery")

	activitiesHandler := activities.NewHandler(s.activitiesRepo)
	api.HandleFunc("/activities", activitiesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-activities")
	api.HandleFunc("/activities/{id}", activitiesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-activity")

	dailyStatsHandler := dailystats.NewHandler(s.dailyStatsRepo)
	api.HandleFunc("/daily-stats", dailyStatsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-daily-stats")
	api.HandleFunc("/daily-stats/date/{date}", dailyStatsHandler.HandleGetByDate).Methods("GET", "OPTIONS").Name("get-daily-stats")

	syncHandler := syncer.NewHandler(s.syncer)
	api.HandleFunc("/sync/{platform}", syncHandler.HandleSync).Methods("POST", "OPTIONS").Name("sync")

	exportsHandler := exports.NewHandler(s.exporter)
	api.HandleFunc("/export/{entity}", exportsHandler.HandleExport).Methods("GET", "OPTIONS").Name("export")

	insightsHandler := insights.NewHandler(s.insightsService)
	api.HandleFunc("/insights", insightsHandler.HandleInsights).Methods("GET", "OPTIONS").Name("insights")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	allowedOrigins := make(map[string]bool, len(s.config.AllowedOrigins))
	for _, origin := range s.config.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiKey)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(allowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.PromMetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("fitlake service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.setupSyncCron(ctx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// setupSyncCron schedules periodic incremental syncs of all configured
// platforms.
func (s *Server) setupSyncCron(ctx context.Context) {
	if s.config.SyncCronSpec == "" {
		log.Debugln("sync cron spec not set, periodic sync disabled")
		return
	}

	s.syncCron = cron.New()
	_, err := s.syncCron.AddFunc(s.config.SyncCronSpec, func() {
		syncCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
		defer cancel()

		result, err := s.syncer.SyncAll(syncCtx, false)
		if err != nil {
			log.Errorf("periodic sync failed: %s", err)
			return
		}
		log.Infof("periodic sync done, synced %d, skipped %d", result.Synced, result.Skipped)
	})
	if err != nil {
		log.Errorf("failed to schedule periodic sync [%s]: %s", s.config.SyncCronSpec, err)
		return
	}

	s.syncCron.Start()
	log.Debugf("periodic sync scheduled: %s", s.config.SyncCronSpec)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.syncCron != nil {
		cronCtx := s.syncCron.Stop()
		select {
		case <-cronCtx.Done():
		case <-time.After(10 * time.Second):
			log.Warnln("gave up waiting for running sync cron jobs")
		}
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
