package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutParams struct {
	Platform string
	From     *time.Time
	To       *time.Time
}

type ListParams struct {
	WorkoutParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert writes the workout and its nested exercises and sets. The workout
// row is overwritten in place on a (platform, external_id) conflict, while
// the nested rows are always deleted and recreated, so removed exercises do
// not linger.
func (r *Repo) Upsert(ctx context.Context, workout Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.external_id", workout.ExternalID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var workoutID int
	err = tx.QueryRow(
		ctx,
		`INSERT INTO workouts
				(platform, external_id, title, description, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (platform, external_id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				updated_at = NOW()
			RETURNING id;`,
		workout.Platform, workout.ExternalID, workout.Title, workout.Description,
		workout.StartTime, workout.EndTime,
	).Scan(&workoutID)
	if err != nil {
		return fmt.Errorf("upsert workout: %w", err)
	}

	// cascade removes the sets too
	if _, err = tx.Exec(ctx, `DELETE FROM workout_exercises WHERE workout_id = $1;`, workoutID); err != nil {
		return fmt.Errorf("delete stale exercises: %w", err)
	}

	for _, exercise := range workout.Exercises {
		var exerciseID int
		err = tx.QueryRow(
			ctx,
			`INSERT INTO workout_exercises
					(workout_id, template_id, title, exercise_index, notes)
					VALUES ($1, $2, $3, $4, $5)
				RETURNING id;`,
			workoutID, exercise.TemplateID, exercise.Title, exercise.ExerciseIndex, exercise.Notes,
		).Scan(&exerciseID)
		if err != nil {
			return fmt.Errorf("insert exercise: %w", err)
		}

		for _, set := range exercise.Sets {
			if _, err = tx.Exec(
				ctx,
				`INSERT INTO workout_sets
					(workout_exercise_id, set_index, set_type, weight_kg, reps, distance_meters, duration_seconds, rpe)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
				exerciseID, set.SetIndex, set.SetType, set.WeightKg, set.Reps,
				set.DistanceMeters, set.DurationSeconds, set.RPE,
			); err != nil {
				return fmt.Errorf("insert set: %w", err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", workoutID))
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, title, description, start_time, end_time, created_at, updated_at
			FROM workouts
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	workoutsFound, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workoutsFound) != 1 {
		return nil, ErrWorkoutNotFound
	}

	workout := &workoutsFound[0]
	if err := r.loadExercises(ctx, workout); err != nil {
		return nil, err
	}

	return workout, nil
}

// List returns the requested page of workouts, newest first, without the
// nested exercises.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.Count(ctx, params.WorkoutParams)
	if err != nil {
		return nil, -1, err
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, title, description, start_time, end_time, created_at, updated_at
			FROM workouts
			WHERE ($1::text = '' OR platform = $1)
			AND ($2::timestamptz IS NULL OR start_time >= $2)
			AND ($3::timestamptz IS NULL OR start_time <= $3)
			ORDER BY start_time DESC
			LIMIT $4
			OFFSET $5;`,
		params.Platform, params.From, params.To, limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}

	workoutsPage, err := rows2workouts(rows)
	if err != nil {
		return nil, -1, err
	}

	return workoutsPage, countAll, nil
}

// ListAll returns all matching workouts with their exercises and sets loaded.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, title, description, start_time, end_time, created_at, updated_at
			FROM workouts
			WHERE ($1::text = '' OR platform = $1)
			AND ($2::timestamptz IS NULL OR start_time >= $2)
			AND ($3::timestamptz IS NULL OR start_time <= $3)
			ORDER BY start_time DESC;`,
		params.Platform, params.From, params.To,
	)
	if err != nil {
		return nil, err
	}

	allWorkouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	for i := range allWorkouts {
		if err := r.loadExercises(ctx, &allWorkouts[i]); err != nil {
			return nil, err
		}
	}

	return allWorkouts, nil
}

func (r *Repo) Count(ctx context.Context, params WorkoutParams) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workouts
			WHERE ($1::text = '' OR platform = $1)
			AND ($2::timestamptz IS NULL OR start_time >= $2)
			AND ($3::timestamptz IS NULL OR start_time <= $3);`,
		params.Platform, params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, err
	}

	return count, nil
}

// LastStartTime returns the newest start_time for a platform, used as the
// incremental sync cursor. Returns nil when no workouts are stored yet.
func (r *Repo) LastStartTime(ctx context.Context, platform string) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.lastStartTime")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var lastStartTime *time.Time
	err = r.db.QueryRow(
		ctx,
		`SELECT MAX(start_time) FROM workouts WHERE platform = $1;`,
		platform,
	).Scan(&lastStartTime)
	if err != nil {
		return nil, err
	}

	return lastStartTime, nil
}

// TrainedDates returns the distinct UTC dates with at least one workout.
func (r *Repo) TrainedDates(ctx context.Context, from, to time.Time) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.trainedDates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT DATE(start_time AT TIME ZONE 'UTC')
			FROM workouts
			WHERE start_time >= $1 AND start_time <= $2;`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return dates, nil
}

func (r *Repo) loadExercises(ctx context.Context, workout *Workout) error {
	exerciseRows, err := r.db.Query(
		ctx,
		`SELECT id, template_id, title, exercise_index, notes
			FROM workout_exercises
			WHERE workout_id = $1
			ORDER BY exercise_index;`,
		workout.ID,
	)
	if err != nil {
		return err
	}
	defer exerciseRows.Close()

	for exerciseRows.Next() {
		var ex WorkoutExercise
		if err := exerciseRows.Scan(&ex.ID, &ex.TemplateID, &ex.Title, &ex.ExerciseIndex, &ex.Notes); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
		workout.Exercises = append(workout.Exercises, ex)
	}
	if err := exerciseRows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}

	for i := range workout.Exercises {
		setRows, err := r.db.Query(
			ctx,
			`SELECT id, set_index, set_type, weight_kg, reps, distance_meters, duration_seconds, rpe
				FROM workout_sets
				WHERE workout_exercise_id = $1
				ORDER BY set_index;`,
			workout.Exercises[i].ID,
		)
		if err != nil {
			return err
		}

		for setRows.Next() {
			var s WorkoutSet
			if err := setRows.Scan(
				&s.ID, &s.SetIndex, &s.SetType, &s.WeightKg, &s.Reps,
				&s.DistanceMeters, &s.DurationSeconds, &s.RPE,
			); err != nil {
				setRows.Close()
				return fmt.Errorf("rows scan: %w", err)
			}
			workout.Exercises[i].Sets = append(workout.Exercises[i].Sets, s)
		}
		if err := setRows.Err(); err != nil {
			setRows.Close()
			return fmt.Errorf("rows: %w", err)
		}
		setRows.Close()
	}

	return nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	defer rows.Close()

	var result []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.Platform, &w.ExternalID, &w.Title, &w.Description,
			&w.StartTime, &w.EndTime, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return result, nil
}
