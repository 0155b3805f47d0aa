package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitlake/internal/telemetry/tracing"
	"github.com/2beens/fitlake/internal/workouts"
)

const systemPrompt = "You are a fitness coach. You get a summary of the user's recent " +
	"training data and respond with short, concrete observations and suggestions. " +
	"Plain text, no markdown."

var ErrInsightsDisabled = errors.New("insights are disabled")

type periodAnalyzer interface {
	AnalyzePeriod(ctx context.Context, platform string, from, to time.Time) (*workouts.EngagementAnalysis, error)
}

type recoverySource interface {
	LastRecoveryDay(ctx context.Context, now time.Time) (time.Time, error)
	CountRecoveryDays(ctx context.Context, from, to time.Time) (int, []time.Time, error)
}

type completionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service summarizes the last weeks of training and asks the chat model
// for observations.
type Service struct {
	client   completionClient
	analyzer periodAnalyzer
	recovery recoverySource
	now      func() time.Time
}

func NewService(client completionClient, analyzer periodAnalyzer, recovery recoverySource) *Service {
	return &Service{
		client:   client,
		analyzer: analyzer,
		recovery: recovery,
		now:      time.Now,
	}
}

func (s *Service) GenerateInsights(ctx context.Context) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "insights.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.client == nil {
		return "", ErrInsightsDisabled
	}

	now := s.now()
	analysis, err := s.analyzer.AnalyzePeriod(ctx, "", now.AddDate(0, 0, -30), now)
	if err != nil {
		return "", fmt.Errorf("analyze period: %w", err)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Training data for the last 30 days:\n")
	fmt.Fprintf(&prompt, "- workouts: %d, total sets: %d\n", analysis.WorkoutsAnalyzed, analysis.TotalSets)
	for _, share := range analysis.Distribution() {
		fmt.Fprintf(&prompt, "- %s: %.1f weighted sets (%.1f%%)\n", share.Muscle, share.Sets, share.Percent)
	}

	lastRecoveryDay, err := s.recovery.LastRecoveryDay(ctx, now)
	switch {
	case errors.Is(err, workouts.ErrNoRecoveryDay):
		prompt.WriteString("- no recovery day in the last year\n")
	case err != nil:
		return "", fmt.Errorf("last recovery day: %w", err)
	default:
		fmt.Fprintf(&prompt, "- last recovery day: %s\n", lastRecoveryDay.Format("2006-01-02"))
	}

	recoveryDays, _, err := s.recovery.CountRecoveryDays(ctx, now.AddDate(0, 0, -30), now.AddDate(0, 0, -1))
	if err != nil {
		return "", fmt.Errorf("count recovery days: %w", err)
	}
	fmt.Fprintf(&prompt, "- recovery days in the last 30 days: %d\n", recoveryDays)

	return s.client.Complete(ctx, systemPrompt, prompt.String())
}
