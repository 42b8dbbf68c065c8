// Package analytics derives operational metrics from a tenant's raw
// chat and automation logs: engagement summaries, heatmaps, trend
// series, funnels, per-agent quality and an estimated AI response-time
// distribution. Every result is computed per request from the store
// contents; nothing is cached except tenant clients.
package analytics

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rafaelruch/agendapro-analytics/pkg/config"
	"github.com/rafaelruch/agendapro-analytics/pkg/metrics"
	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// recordSource abstracts the tenant store access the aggregators need.
// *store.Reader is the production implementation.
type recordSource interface {
	Conversations(ctx context.Context, f models.Filter) ([]models.ConversationRecord, error)
	ConversationsPage(ctx context.Context, f models.Filter, page, pageSize int) ([]models.ConversationRecord, int, error)
	Messages(ctx context.Context, from, to time.Time) ([]models.MessageRecord, error)
	DistinctAgents(ctx context.Context) ([]string, error)
	DistinctStages(ctx context.Context) ([]models.FollowUpStage, error)
	Health(ctx context.Context) models.HealthStatus
}

var _ recordSource = (*store.Reader)(nil)

// Service exposes one operation per metric. All operations are
// independent and side-effect-free apart from registry population, so
// callers may invoke any of them concurrently for the same request.
type Service struct {
	registry *store.Registry
	defaults config.TableDefaults
	logger   *zap.Logger

	// open is swapped in tests to aggregate over fake sources.
	open func(ctx context.Context, conn store.ConnectionConfig) (recordSource, error)
}

// NewService creates the analytics service on top of a shared
// connection registry.
func NewService(registry *store.Registry, cfg *config.Config, logger *zap.Logger) *Service {
	s := &Service{
		registry: registry,
		defaults: cfg.Tables,
		logger:   logger,
	}
	s.open = s.openReader
	return s
}

func (s *Service) openReader(ctx context.Context, conn store.ConnectionConfig) (recordSource, error) {
	pool, err := s.registry.Client(ctx, conn)
	if err != nil {
		return nil, err
	}
	return store.NewReader(pool, conn.ResolveTables(s.defaults), s.logger), nil
}

// observe records instrumentation for one aggregator run.
func (s *Service) observe(aggregator string, start time.Time, err error) {
	metrics.AggregationDuration.WithLabelValues(aggregator).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
		s.logger.Warn("aggregation failed",
			zap.String("aggregator", aggregator),
			zap.Error(err),
		)
	}
	metrics.AggregationTotal.WithLabelValues(aggregator, status).Inc()
}

// round2 rounds to two decimal places. Percentages and averages are
// reported at that precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
