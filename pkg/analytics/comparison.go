package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// MonthComparison computes summaries for the current and immediately
// preceding calendar month and the percentage variation per metric.
func (s *Service) MonthComparison(ctx context.Context, conn store.ConnectionConfig) (*models.MonthComparison, error) {
	return s.monthComparisonAt(ctx, conn, time.Now())
}

func (s *Service) monthComparisonAt(ctx context.Context, conn store.ConnectionConfig, now time.Time) (*models.MonthComparison, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("month_comparison", start, err)
		return nil, err
	}

	currentFrom, currentTo, previousFrom, previousTo := monthWindows(now)

	var current, previous *models.MetricsSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := src.Conversations(gctx, models.Filter{From: currentFrom, To: currentTo})
		if err != nil {
			return err
		}
		current = buildSummary(records)
		return nil
	})
	g.Go(func() error {
		records, err := src.Conversations(gctx, models.Filter{From: previousFrom, To: previousTo})
		if err != nil {
			return err
		}
		previous = buildSummary(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.observe("month_comparison", start, err)
		return nil, err
	}

	s.observe("month_comparison", start, nil)
	return &models.MonthComparison{
		Current:  current,
		Previous: previous,
		Variation: models.SummaryVariation{
			Total:          variation(float64(previous.Total), float64(current.Total)),
			Finalized:      variation(float64(previous.Finalized), float64(current.Finalized)),
			InProgress:     variation(float64(previous.InProgress), float64(current.InProgress)),
			ConversionRate: variation(previous.ConversionRate, current.ConversionRate),
		},
	}, nil
}

// monthWindows returns half-open [from, to) ranges for the calendar
// month containing now and the month before it.
func monthWindows(now time.Time) (currentFrom, currentTo, previousFrom, previousTo time.Time) {
	currentFrom = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	currentTo = currentFrom.AddDate(0, 1, 0)
	previousFrom = currentFrom.AddDate(0, -1, 0)
	previousTo = currentFrom
	return
}

// variation is the percentage change from previous to current. A zero
// previous period yields 0 when current is also zero and 100 otherwise,
// never NaN or infinity.
func variation(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return round2((current - previous) / previous * 100)
}
