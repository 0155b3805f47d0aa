package workouts

import (
	"context"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/internal/templates"
)

const (
	primaryMuscleWeight   = 1.0
	secondaryMuscleWeight = 0.5
)

type workoutsSource interface {
	Get(ctx context.Context, id int) (*Workout, error)
	ListAll(ctx context.Context, params WorkoutParams) ([]Workout, error)
}

type templatesSource interface {
	MapByExternalID(ctx context.Context, platform string) (map[string]templates.ExerciseTemplate, error)
}

// MuscleShare is one muscle group's slice of the training volume.
type MuscleShare struct {
	Muscle  string  `json:"muscle"`
	Sets    float64 `json:"sets"`
	Percent float64 `json:"percent"`
}

// EngagementAnalysis is the weighted per-muscle volume of one or more
// workouts. Each set contributes 1.0 to the primary muscle group of its
// exercise and 0.5 to every secondary one.
type EngagementAnalysis struct {
	Engagement          map[string]float64 `json:"engagement"`
	TotalSets           int                `json:"totalSets"`
	WorkoutsAnalyzed    int                `json:"workoutsAnalyzed"`
	UnresolvedTemplates []string           `json:"unresolvedTemplates,omitempty"`
}

// Distribution returns muscle shares as percentages of the total weighted
// volume, biggest first, ties broken by muscle name.
func (a *EngagementAnalysis) Distribution() []MuscleShare {
	var totalWeighted float64
	for _, sets := range a.Engagement {
		totalWeighted += sets
	}
	if totalWeighted == 0 {
		return nil
	}

	shares := make([]MuscleShare, 0, len(a.Engagement))
	for muscle, sets := range a.Engagement {
		shares = append(shares, MuscleShare{
			Muscle:  muscle,
			Sets:    sets,
			Percent: math.Round(sets/totalWeighted*10000) / 100,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Sets != shares[j].Sets {
			return shares[i].Sets > shares[j].Sets
		}
		return shares[i].Muscle < shares[j].Muscle
	})

	return shares
}

type Analyzer struct {
	workouts  workoutsSource
	templates templatesSource
}

func NewAnalyzer(workouts workoutsSource, templates templatesSource) *Analyzer {
	return &Analyzer{
		workouts:  workouts,
		templates: templates,
	}
}

// AnalyzeWorkout computes the muscle engagement of a single workout.
func (a *Analyzer) AnalyzeWorkout(ctx context.Context, id int) (_ *EngagementAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.analyzer.analyzeWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	workout, err := a.workouts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	templatesMap, err := a.templates.MapByExternalID(ctx, workout.Platform)
	if err != nil {
		return nil, err
	}

	analysis := newEngagementAnalysis()
	analysis.WorkoutsAnalyzed = 1
	analysis.addWorkout(*workout, templatesMap)

	return analysis, nil
}

// AnalyzePeriod computes the combined muscle engagement of all workouts in
// the given period.
func (a *Analyzer) AnalyzePeriod(ctx context.Context, platform string, from, to time.Time) (_ *EngagementAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.analyzer.analyzePeriod")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	periodWorkouts, err := a.workouts.ListAll(ctx, WorkoutParams{
		Platform: platform,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		return nil, err
	}

	templatesMap, err := a.templates.MapByExternalID(ctx, "hevy")
	if err != nil {
		return nil, err
	}

	analysis := newEngagementAnalysis()
	analysis.WorkoutsAnalyzed = len(periodWorkouts)
	for _, workout := range periodWorkouts {
		analysis.addWorkout(workout, templatesMap)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(periodWorkouts)))
	return analysis, nil
}

func newEngagementAnalysis() *EngagementAnalysis {
	return &EngagementAnalysis{
		Engagement: make(map[string]float64),
	}
}

func (a *EngagementAnalysis) addWorkout(workout Workout, templatesMap map[string]templates.ExerciseTemplate) {
	unresolvedSeen := make(map[string]bool, len(a.UnresolvedTemplates))
	for _, t := range a.UnresolvedTemplates {
		unresolvedSeen[t] = true
	}

	for _, exercise := range workout.Exercises {
		setsCount := len(exercise.Sets)
		a.TotalSets += setsCount
		if setsCount == 0 {
			continue
		}

		template, ok := templatesMap[exercise.TemplateID]
		if !ok {
			// sets still count towards the total, but cannot be attributed
			if !unresolvedSeen[exercise.TemplateID] {
				unresolvedSeen[exercise.TemplateID] = true
				a.UnresolvedTemplates = append(a.UnresolvedTemplates, exercise.TemplateID)
			}
			continue
		}

		if template.PrimaryMuscleGroup != "" {
			a.Engagement[template.PrimaryMuscleGroup] += primaryMuscleWeight * float64(setsCount)
		}
		for _, secondary := range template.SecondaryMuscleGroups {
			a.Engagement[secondary] += secondaryMuscleWeight * float64(setsCount)
		}
	}
}
