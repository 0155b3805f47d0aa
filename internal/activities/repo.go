package activities

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

var ErrActivityNotFound = errors.New("activity not found")

type ActivityParams struct {
	Platform     string
	ActivityType string
	From         *time.Time
	To           *time.Time
}

type ListParams struct {
	ActivityParams
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

// Upsert inserts the activity, or overwrites all fields of the existing row
// with the same (platform, external_id) and bumps updated_at.
func (r *Repo) Upsert(ctx context.Context, activity Activity) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("activity.external_id", activity.ExternalID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO activities
				(platform, external_id, name, activity_type, sport_type, description,
				start_time, duration_seconds, moving_time_seconds, distance_meters,
				average_speed, max_speed, calories, average_watts, max_watts,
				average_heart_rate, max_heart_rate, elevation_gain_meters,
				elevation_high, elevation_low, raw_data)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			ON CONFLICT (platform, external_id) DO UPDATE SET
				name = EXCLUDED.name,
				activity_type = EXCLUDED.activity_type,
				sport_type = EXCLUDED.sport_type,
				description = EXCLUDED.description,
				start_time = EXCLUDED.start_time,
				duration_seconds = EXCLUDED.duration_seconds,
				moving_time_seconds = EXCLUDED.moving_time_seconds,
				distance_meters = EXCLUDED.distance_meters,
				average_speed = EXCLUDED.average_speed,
				max_speed = EXCLUDED.max_speed,
				calories = EXCLUDED.calories,
				average_watts = EXCLUDED.average_watts,
				max_watts = EXCLUDED.max_watts,
				average_heart_rate = EXCLUDED.average_heart_rate,
				max_heart_rate = EXCLUDED.max_heart_rate,
				elevation_gain_meters = EXCLUDED.elevation_gain_meters,
				elevation_high = EXCLUDED.elevation_high,
				elevation_low = EXCLUDED.elevation_low,
				raw_data = EXCLUDED.raw_data,
				updated_at = NOW();`,
		activity.Platform, activity.ExternalID, activity.Name, activity.ActivityType,
		activity.SportType, activity.Description, activity.StartTime, activity.DurationSeconds,
		activity.MovingTimeSeconds, activity.DistanceMeters, activity.AverageSpeed, activity.MaxSpeed,
		activity.Calories, activity.AverageWatts, activity.MaxWatts,
		activity.AverageHeartRate, activity.MaxHeartRate, activity.ElevationGainMeters,
		activity.ElevationHigh, activity.ElevationLow, activity.RawData,
	)
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, name, activity_type, sport_type, description,
				start_time, duration_seconds, moving_time_seconds, distance_meters,
				average_speed, max_speed, calories, average_watts, max_watts,
				average_heart_rate, max_heart_rate, elevation_gain_meters,
				elevation_high, elevation_low, created_at, updated_at
			FROM activities
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	found, err := rows2activities(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrActivityNotFound
	}

	return &found[0], nil
}

// List returns the requested page of activities, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Activity, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.String("platform", params.Platform))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.Count(ctx, params.ActivityParams)
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
		`SELECT id, platform, external_id, name, activity_type, sport_type, description,
				start_time, duration_seconds, moving_time_seconds, distance_meters,
				average_speed, max_speed, calories, average_watts, max_watts,
				average_heart_rate, max_heart_rate, elevation_gain_meters,
				elevation_high, elevation_low, created_at, updated_at
			FROM activities
			WHERE ($1::text = '' OR platform = $1)
			AND ($2::text = '' OR activity_type = $2)
			AND ($3::timestamptz IS NULL OR start_time >= $3)
			AND ($4::timestamptz IS NULL OR start_time <= $4)
			ORDER BY start_time DESC
			LIMIT $5
			OFFSET $6;`,
		params.Platform, params.ActivityType, params.From, params.To, limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}

	activitiesPage, err := rows2activities(rows)
	if err != nil {
		return nil, -1, err
	}

	return activitiesPage, countAll, nil
}

// ListAll returns all matching activities, newest first.
func (r *Repo) ListAll(ctx context.Context, params ActivityParams) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, name, activity_type, sport_type, description,
				start_time, duration_seconds, moving_time_seconds, distance_meters,
				average_speed, max_speed, calories, average_watts, max_watts,
				average_heart_rate, max_heart_rate, elevation_gain_meters,
				elevation_high, elevation_low, created_at, updated_at
			FROM activities
			WHERE ($1::text = '' OR platform = $1)
			AND ($2::text = '' OR activity_type = $2)
			AND ($3::timestamptz IS NULL OR start_time >= $3)
			AND ($4::timestamptz IS NULL OR start_time <= $4)
			ORDER BY start_time DESC;`,
		params.Platform, params.ActivityType, params.From, params.To,
	)
	if err != nil {
		return nil, err
	}

	return rows2activities(rows)
}

func (r *Repo) Count(ctx context.Context, params ActivityParams) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM activities
			WHERE ($1::text = '' OR platform = $1)
			AND ($2::text = '' OR activity_type = $2)
			AND ($3::timestamptz IS NULL OR start_time >= $3)
			AND ($4::timestamptz IS NULL OR start_time <= $4);`,
		params.Platform, params.ActivityType, params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, err
	}

	return count, nil
}

// LastStartTime returns the newest start_time for a platform, used as the
// incremental sync cursor. Returns nil when no activities are stored yet.
func (r *Repo) LastStartTime(ctx context.Context, platform string) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.lastStartTime")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var lastStartTime *time.Time
	err = r.db.QueryRow(
		ctx,
		`SELECT MAX(start_time) FROM activities WHERE platform = $1;`,
		platform,
	).Scan(&lastStartTime)
	if err != nil {
		return nil, err
	}

	return lastStartTime, nil
}

// TrainedDates returns the distinct UTC dates with at least one activity.
func (r *Repo) TrainedDates(ctx context.Context, from, to time.Time) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.trainedDates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT DATE(start_time AT TIME ZONE 'UTC')
			FROM activities
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

func rows2activities(rows pgx.Rows) ([]Activity, error) {
	defer rows.Close()

	var result []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(
			&a.ID, &a.Platform, &a.ExternalID, &a.Name, &a.ActivityType,
			&a.SportType, &a.Description, &a.StartTime, &a.DurationSeconds,
			&a.MovingTimeSeconds, &a.DistanceMeters, &a.AverageSpeed, &a.MaxSpeed,
			&a.Calories, &a.AverageWatts, &a.MaxWatts,
			&a.AverageHeartRate, &a.MaxHeartRate, &a.ElevationGainMeters,
			&a.ElevationHigh, &a.ElevationLow, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return result, nil
}
