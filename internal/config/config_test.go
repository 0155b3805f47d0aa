package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/config"
)

const testConfigContent = `
[development]
port = 9000
log_level = "debug"
postgres_db_name = "fitlake_dev"
sync_cron_spec = "0 * * * *"
allowed_origins = ["http://localhost:3000"]

[production]
port = 8080
postgres_host = "db.internal"
insights_enabled = true
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := config.Load("development", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "fitlake_dev", cfg.PostgresDBName)
	assert.Equal(t, "0 * * * *", cfg.SyncCronSpec)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)

	// defaults
	assert.Equal(t, 2112, cfg.PromMetricsPort)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, 16, cfg.CacheSizeMB)
	assert.Equal(t, "gpt-4o-mini", cfg.InsightsModel)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := config.Load("prod", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.True(t, cfg.InsightsEnabled)
	assert.Empty(t, cfg.SyncCronSpec)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := config.Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("development", "/nonexistent/config.toml")
	require.Error(t, err)
}
