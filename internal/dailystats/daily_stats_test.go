package dailystats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/dailystats"
	"github.com/2beens/fitlake/internal/platforms/garmin"
)

func TestFromGarminRecord(t *testing.T) {
	steps := 9000
	restingHR := 52
	deepSleep := 5400
	stats, err := dailystats.FromGarminRecord(garmin.DailyStatsRecord{
		CalendarDate:     "2024-05-01",
		TotalSteps:       &steps,
		RestingHeartRate: &restingHR,
		DeepSleepSeconds: &deepSleep,
	}, []byte(`{"calendarDate":"2024-05-01"}`))
	require.NoError(t, err)

	assert.Equal(t, "garmin", stats.Platform)
	assert.Equal(t, "2024-05-01", stats.ExternalID)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), stats.Date)
	require.NotNil(t, stats.Steps)
	assert.Equal(t, 9000, *stats.Steps)
	require.NotNil(t, stats.DeepSleepSeconds)
	assert.Equal(t, 5400, *stats.DeepSleepSeconds)
}

func TestFromGarminRecord_Invalid(t *testing.T) {
	_, err := dailystats.FromGarminRecord(garmin.DailyStatsRecord{}, nil)
	require.Error(t, err)

	_, err = dailystats.FromGarminRecord(garmin.DailyStatsRecord{CalendarDate: "May 1st"}, nil)
	require.Error(t, err)
}
