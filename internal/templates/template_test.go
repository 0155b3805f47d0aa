package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/internal/templates"
)

func TestFromHevyRecord(t *testing.T) {
	template, err := templates.FromHevyRecord(hevy.TemplateRecord{
		ID:                    "t1",
		Title:                 "Bench Press",
		Type:                  "weight_reps",
		Equipment:             "barbell",
		PrimaryMuscleGroup:    " Chest ",
		SecondaryMuscleGroups: []string{"Triceps", "", "Shoulders "},
	})
	require.NoError(t, err)

	assert.Equal(t, "hevy", template.Platform)
	assert.Equal(t, "t1", template.ExternalID)
	assert.Equal(t, "barbell", template.Equipment)
	assert.Equal(t, "chest", template.PrimaryMuscleGroup)
	assert.Equal(t, []string{"triceps", "shoulders"}, template.SecondaryMuscleGroups)
}

func TestFromHevyRecord_Invalid(t *testing.T) {
	_, err := templates.FromHevyRecord(hevy.TemplateRecord{Title: "Bench Press"})
	require.Error(t, err)

	_, err = templates.FromHevyRecord(hevy.TemplateRecord{ID: "t1"})
	require.Error(t, err)
}
