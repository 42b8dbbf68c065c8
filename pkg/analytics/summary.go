package analytics

import (
	"context"
	"time"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// Summary computes the headline metrics for the filtered range: totals,
// conversion rate and exact per-stage counts.
func (s *Service) Summary(ctx context.Context, conn store.ConnectionConfig, f models.Filter) (*models.MetricsSummary, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("summary", start, err)
		return nil, err
	}
	records, err := src.Conversations(ctx, f)
	if err != nil {
		s.observe("summary", start, err)
		return nil, err
	}

	s.observe("summary", start, nil)
	return buildSummary(records), nil
}

func buildSummary(records []models.ConversationRecord) *models.MetricsSummary {
	summary := &models.MetricsSummary{
		StageCounts: make(map[models.FollowUpStage]int, len(models.Stages)),
	}
	for _, stage := range models.Stages {
		summary.StageCounts[stage] = 0
	}

	for _, rec := range records {
		summary.Total++
		if rec.Finalized {
			summary.Finalized++
		}
		// Exact equality, not cumulative; the funnel handles cumulative counting.
		if _, ok := summary.StageCounts[rec.Stage]; ok {
			summary.StageCounts[rec.Stage]++
		}
	}

	summary.InProgress = summary.Total - summary.Finalized
	if summary.Total > 0 {
		summary.ConversionRate = round2(float64(summary.Finalized) / float64(summary.Total) * 100)
	}
	return summary
}
