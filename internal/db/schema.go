package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id SERIAL PRIMARY KEY,
		platform TEXT NOT NULL,
		external_id TEXT NOT NULL,
		name TEXT,
		activity_type TEXT,
		sport_type TEXT,
		description TEXT,
		start_time TIMESTAMPTZ,
		duration_seconds INTEGER,
		moving_time_seconds INTEGER,
		distance_meters DOUBLE PRECISION,
		average_speed DOUBLE PRECISION,
		max_speed DOUBLE PRECISION,
		calories INTEGER,
		average_watts DOUBLE PRECISION,
		max_watts DOUBLE PRECISION,
		average_heart_rate DOUBLE PRECISION,
		max_heart_rate DOUBLE PRECISION,
		elevation_gain_meters DOUBLE PRECISION,
		elevation_high DOUBLE PRECISION,
		elevation_low DOUBLE PRECISION,
		raw_data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (platform, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities (start_time)`,
	`CREATE TABLE IF NOT EXISTS workouts (
		id SERIAL PRIMARY KEY,
		platform TEXT NOT NULL,
		external_id TEXT NOT NULL,
		title TEXT,
		description TEXT,
		start_time TIMESTAMPTZ,
		end_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (platform, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workouts_start_time ON workouts (start_time)`,
	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id SERIAL PRIMARY KEY,
		workout_id INTEGER NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		template_id TEXT,
		title TEXT,
		exercise_index INTEGER,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_sets (
		id SERIAL PRIMARY KEY,
		workout_exercise_id INTEGER NOT NULL REFERENCES workout_exercises(id) ON DELETE CASCADE,
		set_index INTEGER,
		set_type TEXT,
		weight_kg DOUBLE PRECISION,
		reps INTEGER,
		distance_meters DOUBLE PRECISION,
		duration_seconds INTEGER,
		rpe DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS exercise_templates (
		id SERIAL PRIMARY KEY,
		platform TEXT NOT NULL,
		external_id TEXT NOT NULL,
		title TEXT,
		exercise_type TEXT,
		equipment TEXT,
		primary_muscle_group TEXT,
		secondary_muscle_groups TEXT[],
		is_custom BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (platform, external_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_stats (
		id SERIAL PRIMARY KEY,
		platform TEXT NOT NULL,
		external_id TEXT NOT NULL,
		date DATE NOT NULL,
		steps INTEGER,
		calories_burned INTEGER,
		resting_heart_rate INTEGER,
		max_heart_rate INTEGER,
		min_heart_rate INTEGER,
		stress_avg INTEGER,
		body_battery_high INTEGER,
		body_battery_low INTEGER,
		sleep_seconds INTEGER,
		deep_sleep_seconds INTEGER,
		light_sleep_seconds INTEGER,
		rem_sleep_seconds INTEGER,
		awake_seconds INTEGER,
		raw_data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (platform, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_stats_date ON daily_stats (date)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Debugln("db schema ensured")
	return nil
}
