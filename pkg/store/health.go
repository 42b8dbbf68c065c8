package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
)

// probe issues a minimal existence check against a table. An empty
// table is healthy; only reachability and table existence matter.
func (r *Reader) probe(ctx context.Context, table string) error {
	query := fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", pgx.Identifier{table}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return r.tableErr(table, err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return r.tableErr(table, err)
	}
	return nil
}

// Health probes both logical tables. The conversation table is
// required; the message table is optional, so a missing one degrades
// instead of failing.
func (r *Reader) Health(ctx context.Context) models.HealthStatus {
	if err := r.probe(ctx, r.tables.Conversations); err != nil {
		return models.HealthStatus{State: models.HealthDown, Detail: err.Error()}
	}
	if err := r.probe(ctx, r.tables.Messages); err != nil {
		return models.HealthStatus{State: models.HealthDegraded, Detail: err.Error()}
	}
	return models.HealthStatus{State: models.HealthOK}
}
