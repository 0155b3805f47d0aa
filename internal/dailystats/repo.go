package dailystats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/pkg"
)

var ErrDailyStatsNotFound = errors.New("daily stats not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert replaces the stored day. The old row for the same
// (platform, external_id) is deleted and fully recreated, so fields that
// disappeared upstream do not survive locally.
func (r *Repo) Upsert(ctx context.Context, stats DailyStats) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.dailystats.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("stats.external_id", stats.ExternalID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(
		ctx,
		`DELETE FROM daily_stats WHERE platform = $1 AND external_id = $2;`,
		stats.Platform, stats.ExternalID,
	); err != nil {
		return fmt.Errorf("delete stale daily stats: %w", err)
	}

	if _, err = tx.Exec(
		ctx,
		`INSERT INTO daily_stats
			(platform, external_id, date, steps, calories_burned, resting_heart_rate,
			max_heart_rate, min_heart_rate, stress_avg, body_battery_high, body_battery_low,
			sleep_seconds, deep_sleep_seconds, light_sleep_seconds, rem_sleep_seconds, awake_seconds, raw_data)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		stats.Platform, stats.ExternalID, stats.Date, stats.Steps, stats.CaloriesBurned,
		stats.RestingHeartRate, stats.MaxHeartRate, stats.MinHeartRate, stats.StressAvg,
		stats.BodyBatteryHigh, stats.BodyBatteryLow, stats.SleepSeconds, stats.DeepSleepSeconds,
		stats.LightSleepSeconds, stats.RemSleepSeconds, stats.AwakeSeconds, stats.RawData,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("daily stats for %s already stored: %w", stats.Date.Format("2006-01-02"), err)
		}
		return fmt.Errorf("insert daily stats: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *Repo) GetByDate(ctx context.Context, date time.Time) (_ *DailyStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.dailystats.getByDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, date, steps, calories_burned, resting_heart_rate,
				max_heart_rate, min_heart_rate, stress_avg, body_battery_high, body_battery_low,
				sleep_seconds, deep_sleep_seconds, light_sleep_seconds, rem_sleep_seconds, awake_seconds,
				created_at, updated_at
			FROM daily_stats
			WHERE date = $1;`,
		date,
	)
	if err != nil {
		return nil, err
	}

	found, err := rows2stats(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrDailyStatsNotFound
	}

	return &found[0], nil
}

// List returns daily stats in [from, to], oldest first.
func (r *Repo) List(ctx context.Context, from, to time.Time) (_ []DailyStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.dailystats.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, date, steps, calories_burned, resting_heart_rate,
				max_heart_rate, min_heart_rate, stress_avg, body_battery_high, body_battery_low,
				sleep_seconds, deep_sleep_seconds, light_sleep_seconds, rem_sleep_seconds, awake_seconds,
				created_at, updated_at
			FROM daily_stats
			WHERE date >= $1 AND date <= $2
			ORDER BY date;`,
		from, to,
	)
	if err != nil {
		return nil, err
	}

	return rows2stats(rows)
}

// LastDate returns the newest stored date, used as the incremental sync
// cursor. Returns nil when no stats are stored yet.
func (r *Repo) LastDate(ctx context.Context, platform string) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.dailystats.lastDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var lastDate *time.Time
	err = r.db.QueryRow(
		ctx,
		`SELECT MAX(date) FROM daily_stats WHERE platform = $1;`,
		platform,
	).Scan(&lastDate)
	if err != nil {
		return nil, err
	}

	return lastDate, nil
}

func (r *Repo) Count(ctx context.Context, platform string) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.dailystats.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM daily_stats WHERE ($1::text = '' OR platform = $1);`,
		platform,
	).Scan(&count)
	if err != nil {
		return -1, err
	}

	return count, nil
}

func rows2stats(rows pgx.Rows) ([]DailyStats, error) {
	defer rows.Close()

	var result []DailyStats
	for rows.Next() {
		var s DailyStats
		if err := rows.Scan(
			&s.ID, &s.Platform, &s.ExternalID, &s.Date, &s.Steps, &s.CaloriesBurned,
			&s.RestingHeartRate, &s.MaxHeartRate, &s.MinHeartRate, &s.StressAvg,
			&s.BodyBatteryHigh, &s.BodyBatteryLow, &s.SleepSeconds, &s.DeepSleepSeconds,
			&s.LightSleepSeconds, &s.RemSleepSeconds, &s.AwakeSeconds,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return result, nil
}
