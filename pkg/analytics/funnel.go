package analytics

import (
	"context"
	"time"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// Funnel computes the engagement funnel for the filtered range: an
// "entered" step, one cumulative-inclusive step per follow-up stage
// (stage k counts every record at stage k or later) and a final
// "finalized" step. All percentages are relative to the range total.
func (s *Service) Funnel(ctx context.Context, conn store.ConnectionConfig, f models.Filter) ([]models.FunnelStep, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("funnel", start, err)
		return nil, err
	}
	records, err := src.Conversations(ctx, f)
	if err != nil {
		s.observe("funnel", start, err)
		return nil, err
	}

	s.observe("funnel", start, nil)
	return buildFunnel(records), nil
}

func buildFunnel(records []models.ConversationRecord) []models.FunnelStep {
	total := len(records)

	percentage := func(value int) float64 {
		if total == 0 {
			return 0
		}
		return round2(float64(value) / float64(total) * 100)
	}

	steps := make([]models.FunnelStep, 0, len(models.Stages)+2)
	steps = append(steps, models.FunnelStep{
		Name:       "entered",
		Value:      total,
		Percentage: percentage(total),
	})

	for _, stage := range models.Stages {
		rank := stage.Rank()
		count := 0
		for _, rec := range records {
			if rec.Stage.Rank() >= rank {
				count++
			}
		}
		steps = append(steps, models.FunnelStep{
			Name:       string(stage),
			Value:      count,
			Percentage: percentage(count),
		})
	}

	finalized := 0
	for _, rec := range records {
		if rec.Finalized {
			finalized++
		}
	}
	steps = append(steps, models.FunnelStep{
		Name:       "finalized",
		Value:      finalized,
		Percentage: percentage(finalized),
	})

	return steps
}
