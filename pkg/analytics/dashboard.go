package analytics

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// Dashboard runs the aggregations a dashboard load needs concurrently.
// Each section issues its own queries and records its own error; a
// failed section never cancels siblings, since they are logically
// independent requests from the caller's point of view.
func (s *Service) Dashboard(ctx context.Context, conn store.ConnectionConfig, f models.Filter) (*models.Dashboard, error) {
	start := time.Now()

	// Validate and warm the tenant client once before fanning out.
	if _, err := s.open(ctx, conn); err != nil {
		s.observe("dashboard", start, err)
		return nil, err
	}

	dashboard := &models.Dashboard{Errors: make(map[string]string)}
	var mu sync.Mutex

	fail := func(section string, err error) {
		mu.Lock()
		dashboard.Errors[section] = err.Error()
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		summary, err := s.Summary(ctx, conn, f)
		if err != nil {
			fail("summary", err)
			return nil
		}
		mu.Lock()
		dashboard.Summary = summary
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		heatmap, err := s.Heatmap(ctx, conn, f)
		if err != nil {
			fail("heatmap", err)
			return nil
		}
		mu.Lock()
		dashboard.Heatmap = heatmap
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		daily, err := s.DailyTrend(ctx, conn, f)
		if err != nil {
			fail("daily_trend", err)
			return nil
		}
		mu.Lock()
		dashboard.DailyTrend = daily
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		hourly, err := s.HourlyTrend(ctx, conn, f)
		if err != nil {
			fail("hourly_trend", err)
			return nil
		}
		mu.Lock()
		dashboard.HourlyTrend = hourly
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		funnel, err := s.Funnel(ctx, conn, f)
		if err != nil {
			fail("funnel", err)
			return nil
		}
		mu.Lock()
		dashboard.Funnel = funnel
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		responseTime, err := s.ResponseTime(ctx, conn, f)
		if err != nil {
			fail("response_time", err)
			return nil
		}
		mu.Lock()
		dashboard.ResponseTime = responseTime
		mu.Unlock()
		return nil
	})

	_ = g.Wait()

	if len(dashboard.Errors) == 0 {
		dashboard.Errors = nil
	}
	s.observe("dashboard", start, nil)
	return dashboard, nil
}
