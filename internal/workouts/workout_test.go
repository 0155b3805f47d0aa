package workouts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/internal/workouts"
)

func TestFromHevyRecord(t *testing.T) {
	weight := 80.0
	reps := 8
	record := hevy.WorkoutRecord{
		ID:        "w1",
		Title:     "Push Day",
		StartTime: "2024-05-01T10:00:00Z",
		EndTime:   "2024-05-01T11:15:00Z",
		Exercises: []hevy.ExerciseRecord{
			{
				Index:              0,
				Title:              "Bench Press",
				ExerciseTemplateID: "bench-press",
				Sets: []hevy.SetRecord{
					{Index: 0, Type: "warmup", WeightKg: &weight},
					{Index: 1, Type: "normal", WeightKg: &weight, Reps: &reps},
				},
			},
		},
	}

	workout, err := workouts.FromHevyRecord(record)
	require.NoError(t, err)

	assert.Equal(t, "hevy", workout.Platform)
	assert.Equal(t, "w1", workout.ExternalID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), workout.StartTime)
	require.Len(t, workout.Exercises, 1)
	require.Len(t, workout.Exercises[0].Sets, 2)
	assert.Equal(t, "bench-press", workout.Exercises[0].TemplateID)
	require.NotNil(t, workout.Exercises[0].Sets[1].Reps)
	assert.Equal(t, 8, *workout.Exercises[0].Sets[1].Reps)
}

func TestFromHevyRecord_Invalid(t *testing.T) {
	_, err := workouts.FromHevyRecord(hevy.WorkoutRecord{
		Title:     "Push Day",
		StartTime: "2024-05-01T10:00:00Z",
		EndTime:   "2024-05-01T11:15:00Z",
	})
	require.Error(t, err)

	_, err = workouts.FromHevyRecord(hevy.WorkoutRecord{
		ID:        "w1",
		StartTime: "not-a-timestamp",
		EndTime:   "2024-05-01T11:15:00Z",
	})
	require.Error(t, err)
}
