package analytics

import (
	"context"
	"time"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// HealthCheck probes the tenant's store. Configuration and client
// creation errors return as errors; a reachable client always yields a
// tri-state status: ok, degraded (message table missing) or down.
func (s *Service) HealthCheck(ctx context.Context, conn store.ConnectionConfig) (*models.HealthStatus, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("health", start, err)
		return nil, err
	}

	status := src.Health(ctx)
	s.observe("health", start, nil)
	return &status, nil
}
