package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
)

var ErrTemplateNotFound = errors.New("exercise template not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert inserts the template, or overwrites all fields of the existing row
// with the same (platform, external_id) and bumps updated_at.
func (r *Repo) Upsert(ctx context.Context, template ExerciseTemplate) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.external_id", template.ExternalID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise_templates
				(platform, external_id, title, exercise_type, equipment, primary_muscle_group, secondary_muscle_groups, is_custom)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (platform, external_id) DO UPDATE SET
				title = EXCLUDED.title,
				exercise_type = EXCLUDED.exercise_type,
				equipment = EXCLUDED.equipment,
				primary_muscle_group = EXCLUDED.primary_muscle_group,
				secondary_muscle_groups = EXCLUDED.secondary_muscle_groups,
				is_custom = EXCLUDED.is_custom,
				updated_at = NOW();`,
		template.Platform, template.ExternalID, template.Title, template.ExerciseType,
		template.Equipment, template.PrimaryMuscleGroup, template.SecondaryMuscleGroups, template.IsCustom,
	)
	if err != nil {
		return fmt.Errorf("upsert exercise template: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, platform, externalID string) (_ *ExerciseTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, title, exercise_type, equipment, primary_muscle_group, secondary_muscle_groups, is_custom, created_at, updated_at
			FROM exercise_templates
			WHERE platform = $1 AND external_id = $2;`,
		platform, externalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates, err := rows2templates(rows)
	if err != nil {
		return nil, err
	}
	if len(templates) != 1 {
		return nil, ErrTemplateNotFound
	}

	return &templates[0], nil
}

// MapByExternalID returns all templates of a platform keyed by external ID,
// used to resolve template references during workout analysis.
func (r *Repo) MapByExternalID(ctx context.Context, platform string) (_ map[string]ExerciseTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.mapByExternalId")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, title, exercise_type, equipment, primary_muscle_group, secondary_muscle_groups, is_custom, created_at, updated_at
			FROM exercise_templates
			WHERE platform = $1;`,
		platform,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates, err := rows2templates(rows)
	if err != nil {
		return nil, err
	}

	templatesMap := make(map[string]ExerciseTemplate, len(templates))
	for _, t := range templates {
		templatesMap[t.ExternalID] = t
	}

	span.SetAttributes(attribute.Int("templates.count", len(templatesMap)))
	return templatesMap, nil
}

func (r *Repo) List(ctx context.Context, platform string) (_ []ExerciseTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, platform, external_id, title, exercise_type, equipment, primary_muscle_group, secondary_muscle_groups, is_custom, created_at, updated_at
			FROM exercise_templates
			WHERE ($1::text = '' OR platform = $1)
			ORDER BY title;`,
		platform,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2templates(rows)
}

func (r *Repo) Count(ctx context.Context, platform string) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM exercise_templates WHERE ($1::text = '' OR platform = $1);`,
		platform,
	).Scan(&count)
	if err != nil {
		return -1, err
	}

	return count, nil
}

func rows2templates(rows pgx.Rows) ([]ExerciseTemplate, error) {
	var templates []ExerciseTemplate
	for rows.Next() {
		var t ExerciseTemplate
		if err := rows.Scan(
			&t.ID, &t.Platform, &t.ExternalID, &t.Title, &t.ExerciseType,
			&t.Equipment, &t.PrimaryMuscleGroup, &t.SecondaryMuscleGroups, &t.IsCustom,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return templates, nil
}
