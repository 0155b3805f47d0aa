package workouts

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
)

// recoveryLookbackDays bounds how far back the recovery day search goes.
const recoveryLookbackDays = 365

var ErrNoRecoveryDay = errors.New("no recovery day found")

type trainedDatesSource interface {
	TrainedDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// RecoveryAnalyzer finds days without any training, combining every
// source of trained dates it is given (workouts, cardio activities).
type RecoveryAnalyzer struct {
	sources []trainedDatesSource
}

func NewRecoveryAnalyzer(sources ...trainedDatesSource) *RecoveryAnalyzer {
	return &RecoveryAnalyzer{
		sources: sources,
	}
}

// LastRecoveryDay returns the most recent full day, starting from yesterday,
// with no training at all. Today is never a candidate since it is not over.
func (ra *RecoveryAnalyzer) LastRecoveryDay(ctx context.Context, now time.Time) (_ time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.recovery.lastRecoveryDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	today := truncateToDay(now)
	lookbackStart := today.AddDate(0, 0, -recoveryLookbackDays)

	trained, err := ra.trainedDaySet(ctx, lookbackStart, today)
	if err != nil {
		return time.Time{}, err
	}

	for day := today.AddDate(0, 0, -1); !day.Before(lookbackStart); day = day.AddDate(0, 0, -1) {
		if !trained[day] {
			span.SetAttributes(attribute.String("recovery.day", day.Format("2006-01-02")))
			return day, nil
		}
	}

	return time.Time{}, ErrNoRecoveryDay
}

// CountRecoveryDays returns the number of days in [from, to] without any
// training, together with the recovery dates themselves, oldest first.
func (ra *RecoveryAnalyzer) CountRecoveryDays(ctx context.Context, from, to time.Time) (_ int, _ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.recovery.countRecoveryDays")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from = truncateToDay(from)
	to = truncateToDay(to)

	trained, err := ra.trainedDaySet(ctx, from, to)
	if err != nil {
		return -1, nil, err
	}

	var recoveryDates []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !trained[day] {
			recoveryDates = append(recoveryDates, day)
		}
	}

	span.SetAttributes(attribute.Int("recovery.count", len(recoveryDates)))
	return len(recoveryDates), recoveryDates, nil
}

func (ra *RecoveryAnalyzer) trainedDaySet(ctx context.Context, from, to time.Time) (map[time.Time]bool, error) {
	trained := make(map[time.Time]bool)
	for _, source := range ra.sources {
		dates, err := source.TrainedDates(ctx, from, to.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			trained[truncateToDay(d)] = true
		}
	}
	return trained, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
