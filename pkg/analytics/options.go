package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// FilterOptions returns every agent name and follow-up stage observed
// across the entire conversation table, ignoring any date filter, so
// filter dropdowns can offer values outside the current window. Scans
// the whole table; cost grows with tenant history.
func (s *Service) FilterOptions(ctx context.Context, conn store.ConnectionConfig) (*models.FilterOptions, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("filter_options", start, err)
		return nil, err
	}

	options := &models.FilterOptions{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agents, err := src.DistinctAgents(gctx)
		if err != nil {
			return err
		}
		options.Agents = agents
		return nil
	})
	g.Go(func() error {
		stages, err := src.DistinctStages(gctx)
		if err != nil {
			return err
		}
		options.Stages = stages
		return nil
	})

	if err := g.Wait(); err != nil {
		s.observe("filter_options", start, err)
		return nil, err
	}

	s.observe("filter_options", start, nil)
	return options, nil
}
