package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlake/internal"
	"github.com/2beens/fitlake/internal/config"
	"github.com/2beens/fitlake/internal/logging"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	if err := godotenv.Load(); err != nil {
		log.Tracef("no .env file loaded: %s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	if sentryDSN == "" {
		sentryDSN = cfg.SentryDSN
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      *env,
		SentryEnabled:    sentryDSN != "",
		SentryDSN:        sentryDSN,
		SentryServerName: "fitlake-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	apiKey := os.Getenv("FITLAKE_API_KEY")
	if apiKey == "" {
		log.Errorf("api key not set, use FITLAKE_API_KEY env var to set it")
	}

	hevyAPIKey := os.Getenv("HEVY_API_KEY")
	if hevyAPIKey == "" {
		log.Warnln("hevy API key not set, hevy sync disabled. use HEVY_API_KEY to set it")
	}

	stravaClientID := os.Getenv("STRAVA_CLIENT_ID")
	stravaClientSecret := os.Getenv("STRAVA_CLIENT_SECRET")
	stravaRefreshToken := os.Getenv("STRAVA_REFRESH_TOKEN")
	if stravaClientID == "" || stravaRefreshToken == "" {
		log.Warnln("strava credentials not set, strava sync disabled. use STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET and STRAVA_REFRESH_TOKEN")
	}

	garminAccessToken := os.Getenv("GARMIN_ACCESS_TOKEN")
	garminDisplayName := os.Getenv("GARMIN_DISPLAY_NAME")
	if garminAccessToken == "" || garminDisplayName == "" {
		log.Warnln("garmin credentials not set, garmin sync disabled. use GARMIN_ACCESS_TOKEN and GARMIN_DISPLAY_NAME")
	}

	openAIAPIKey := os.Getenv("OPENAI_API_KEY")
	if cfg.InsightsEnabled && openAIAPIKey == "" {
		log.Warnln("insights enabled but OPENAI_API_KEY not set, insights disabled")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	tracingEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if tracingEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:             cfg,
			VersionInfo:        versionInfo,
			APIKey:             apiKey,
			DBPassword:         os.Getenv("FITLAKE_DB_PASSWORD"),
			HevyAPIKey:         hevyAPIKey,
			StravaClientID:     stravaClientID,
			StravaClientSecret: stravaClientSecret,
			StravaRefreshToken: stravaRefreshToken,
			GarminAccessToken:  garminAccessToken,
			GarminDisplayName:  garminDisplayName,
			OpenAIAPIKey:       openAIAPIKey,
			TracingEnabled:     tracingEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, "", cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
