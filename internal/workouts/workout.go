package workouts

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitlake/internal/platforms/hevy"
	"github.com/2beens/fitlake/pkg"
)

type WorkoutSet struct {
	ID              int      `json:"id"`
	SetIndex        int      `json:"setIndex"`
	SetType         string   `json:"setType"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	DistanceMeters  *float64 `json:"distanceMeters,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	RPE             *float64 `json:"rpe,omitempty"`
}

type WorkoutExercise struct {
	ID            int          `json:"id"`
	TemplateID    string       `json:"templateId"`
	Title         string       `json:"title"`
	ExerciseIndex int          `json:"exerciseIndex"`
	Notes         string       `json:"notes,omitempty"`
	Sets          []WorkoutSet `json:"sets"`
}

type Workout struct {
	ID          int               `json:"id"`
	Platform    string            `json:"platform"`
	ExternalID  string            `json:"externalId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     time.Time         `json:"endTime"`
	Exercises   []WorkoutExercise `json:"exercises"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// FromHevyRecord maps a raw Hevy workout, with all nested exercises and
// sets, to the stored model.
func FromHevyRecord(rec hevy.WorkoutRecord) (*Workout, error) {
	if rec.ID == "" {
		return nil, errors.New("workout without id")
	}

	startTime, err := pkg.ParseTimestamp(rec.StartTime)
	if err != nil {
		return nil, fmt.Errorf("workout %s start time: %w", rec.ID, err)
	}
	endTime, err := pkg.ParseTimestamp(rec.EndTime)
	if err != nil {
		return nil, fmt.Errorf("workout %s end time: %w", rec.ID, err)
	}

	workout := &Workout{
		Platform:    "hevy",
		ExternalID:  rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		StartTime:   startTime,
		EndTime:     endTime,
	}

	for _, ex := range rec.Exercises {
		exercise := WorkoutExercise{
			TemplateID:    ex.ExerciseTemplateID,
			Title:         ex.Title,
			ExerciseIndex: ex.Index,
			Notes:         ex.Notes,
		}
		for _, s := range ex.Sets {
			exercise.Sets = append(exercise.Sets, WorkoutSet{
				SetIndex:        s.Index,
				SetType:         s.Type,
				WeightKg:        s.WeightKg,
				Reps:            s.Reps,
				DistanceMeters:  s.DistanceMeters,
				DurationSeconds: s.DurationSeconds,
				RPE:             s.RPE,
			})
		}
		workout.Exercises = append(workout.Exercises, exercise)
	}

	return workout, nil
}
