package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/telemetry/metrics"
)

func TestNewLocalManager(t *testing.T) {
	m := metrics.NewLocalManager()
	require.NotNil(t, m)

	// a private registry, incrementing must not panic or collide
	m.CounterSyncedRecords.WithLabelValues("hevy", "workouts").Add(2)
	m.GaugeLifeSignal.Set(1)
}

func TestNewManager_Gather(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	m.CounterSyncRuns.WithLabelValues("strava", "full").Inc()

	gathered, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range gathered {
		if mf.GetName() == "fitlake_test_server_sync_runs" {
			found = true
		}
	}
	assert.True(t, found)
}
