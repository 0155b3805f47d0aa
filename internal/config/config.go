package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port            int `toml:"port"`
	PromMetricsPort int `toml:"prom_metrics_port"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryDSN string `toml:"sentry_dsn"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// data dir holds CSV export caches and the strava token cache
	DataDir string `toml:"data_dir"`

	// cron spec for the scheduled light sync, empty disables it
	SyncCronSpec string `toml:"sync_cron_spec"`

	InsightsEnabled bool   `toml:"insights_enabled"`
	InsightsModel   string `toml:"insights_model"`
	InsightsBaseURL string `toml:"insights_base_url"`

	// distribution response cache
	CacheSizeMB     int `toml:"cache_size_mb"`
	CacheExpireSecs int `toml:"cache_expire_secs"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConf Toml
	if _, err := toml.DecodeFile(path, &tomlConf); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConf.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s is empty", env)
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.PromMetricsPort == 0 {
		c.PromMetricsPort = 2112
	}
	if c.LogLevel == "" {
		c.LogLevel = "trace"
	}
	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "fitlake"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.CacheSizeMB == 0 {
		c.CacheSizeMB = 16
	}
	if c.CacheExpireSecs == 0 {
		c.CacheExpireSecs = 300
	}
	if c.InsightsModel == "" {
		c.InsightsModel = "gpt-4o-mini"
	}
	if c.InsightsBaseURL == "" {
		c.InsightsBaseURL = "https://api.openai.com/v1"
	}
}
