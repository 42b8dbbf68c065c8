package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rafaelruch/agendapro-analytics/pkg/config"
	"github.com/rafaelruch/agendapro-analytics/pkg/logging"
	"github.com/rafaelruch/agendapro-analytics/pkg/metrics"
	"github.com/rafaelruch/agendapro-analytics/pkg/retry"
)

// clientKey identifies a cached tenant client. The credential is
// deliberately NOT part of the key: a later call with a rotated
// credential for the same (endpoint, database) silently reuses the
// existing client. Known limitation; changing the key needs product
// sign-off.
type clientKey struct {
	endpoint string
	database string
}

// Registry is a memoized factory of tenant store clients, one per
// (endpoint, database). Clients are created on first use and never torn
// down within the process lifetime; there is no eviction policy. In a
// long-lived multi-tenant process this grows with the number of distinct
// tenants, which is an accepted tradeoff. The analytics_cached_clients
// gauge tracks the size.
type Registry struct {
	mu      sync.RWMutex
	clients map[clientKey]*pgxpool.Pool

	pool     config.PoolConfig
	retryCfg *retry.Config
	logger   *zap.Logger
}

// NewRegistry creates a registry using the engine's pool sizing and
// retry tuning.
func NewRegistry(cfg *config.Config, logger *zap.Logger) *Registry {
	return &Registry{
		clients: make(map[clientKey]*pgxpool.Pool),
		pool:    cfg.Pool,
		retryCfg: &retry.Config{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: time.Duration(cfg.Retry.InitialDelayMs) * time.Millisecond,
			MaxDelay:     time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		logger: logger,
	}
}

// Client returns the cached client for the tenant, creating it on first
// use. Concurrent calls for the same key return the same instance.
func (r *Registry) Client(ctx context.Context, conn ConnectionConfig) (*pgxpool.Pool, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	key := clientKey{endpoint: conn.Endpoint, database: conn.Database}

	r.mu.RLock()
	pool, exists := r.clients[key]
	r.mu.RUnlock()
	if exists {
		return pool, nil
	}

	return r.createClient(ctx, key, conn)
}

// createClient builds and caches a new pool under the write lock.
func (r *Registry) createClient(ctx context.Context, key clientKey, conn ConnectionConfig) (*pgxpool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have created it)
	if pool, exists := r.clients[key]; exists {
		return pool, nil
	}

	dsn, err := conn.dsn()
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		r.logger.Error("failed to parse tenant connection string",
			zap.String("endpoint", conn.Endpoint),
			zap.String("database", conn.Database),
			zap.String("error", logging.SanitizeError(err)),
		)
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = r.pool.MaxConns
	poolConfig.MinConns = r.pool.MinConns

	pool, err := retry.DoWithResult(ctx, r.retryCfg, func() (*pgxpool.Pool, error) {
		return pgxpool.NewWithConfig(ctx, poolConfig)
	})
	if err != nil {
		r.logger.Error("failed to create tenant client after retries",
			zap.String("endpoint", conn.Endpoint),
			zap.String("database", conn.Database),
			zap.String("error", logging.SanitizeError(err)),
		)
		return nil, fmt.Errorf("failed to create client for %s/%s: %w", conn.Endpoint, conn.Database, err)
	}

	r.clients[key] = pool
	metrics.CachedClients.Set(float64(len(r.clients)))

	r.logger.Info("created tenant client",
		zap.String("endpoint", conn.Endpoint),
		zap.String("database", conn.Database),
		zap.Int("cached_clients", len(r.clients)),
	)

	return pool, nil
}

// Stats returns a snapshot of the registry state.
// Safe to call concurrently.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		TotalClients:      len(r.clients),
		ClientsByEndpoint: make(map[string]int),
	}
	for key := range r.clients {
		stats.ClientsByEndpoint[key.endpoint]++
	}
	return stats
}

// Close closes every cached client. Intended for process shutdown only;
// during normal operation clients live for the process lifetime.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, pool := range r.clients {
		pool.Close()
		delete(r.clients, key)
	}
	metrics.CachedClients.Set(0)
	r.logger.Info("connection registry closed")
}

// RegistryStats describes the registry contents.
type RegistryStats struct {
	TotalClients      int            `json:"total_clients"`
	ClientsByEndpoint map[string]int `json:"clients_by_endpoint"`
}
