package templates

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/fitlake/internal/platforms/hevy"
)

// ExerciseTemplate is the catalog entry an exercise in a workout points to.
// The muscle group fields drive the engagement analysis.
type ExerciseTemplate struct {
	ID                    int       `json:"id"`
	Platform              string    `json:"platform"`
	ExternalID            string    `json:"externalId"`
	Title                 string    `json:"title"`
	ExerciseType          string    `json:"exerciseType"`
	Equipment             string    `json:"equipment"`
	PrimaryMuscleGroup    string    `json:"primaryMuscleGroup"`
	SecondaryMuscleGroups []string  `json:"secondaryMuscleGroups"`
	IsCustom              bool      `json:"isCustom"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// FromHevyRecord maps a raw Hevy exercise template to the stored model.
func FromHevyRecord(rec hevy.TemplateRecord) (*ExerciseTemplate, error) {
	if rec.ID == "" {
		return nil, errors.New("exercise template without id")
	}
	if rec.Title == "" {
		return nil, errors.New("exercise template without title")
	}

	secondary := make([]string, 0, len(rec.SecondaryMuscleGroups))
	for _, mg := range rec.SecondaryMuscleGroups {
		mg = normalizeMuscleGroup(mg)
		if mg != "" {
			secondary = append(secondary, mg)
		}
	}

	return &ExerciseTemplate{
		Platform:              "hevy",
		ExternalID:            rec.ID,
		Title:                 rec.Title,
		ExerciseType:          rec.Type,
		Equipment:             rec.Equipment,
		PrimaryMuscleGroup:    normalizeMuscleGroup(rec.PrimaryMuscleGroup),
		SecondaryMuscleGroups: secondary,
		IsCustom:              rec.IsCustom,
	}, nil
}

func normalizeMuscleGroup(mg string) string {
	return strings.ToLower(strings.TrimSpace(mg))
}
