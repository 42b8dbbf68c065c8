package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rafaelruch/agendapro-analytics/pkg/metrics"
	"github.com/rafaelruch/agendapro-analytics/pkg/models"
)

// Querier is the subset of pgxpool.Pool the reader needs. It exists so
// integration tests can pass a bare pool and unit tests a fake.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Reader provides range/filter/paginate access to a tenant's two
// logical record streams. It issues read-only queries; the external
// automation system owns all writes.
type Reader struct {
	db     Querier
	tables Tables
	logger *zap.Logger
}

// NewReader binds a reader to one tenant's client and resolved tables.
func NewReader(db Querier, tables Tables, logger *zap.Logger) *Reader {
	return &Reader{db: db, tables: tables, logger: logger}
}

const conversationColumns = "id, phone, client_name, agent_name, finalized, followup_stage, created_at"

// conversationFilter builds the WHERE clause and arguments for a
// conversation query. The date range is half-open: [From, To).
func conversationFilter(f models.Filter) (string, []any) {
	clauses := []string{"created_at >= $1", "created_at < $2"}
	args := []any{f.From, f.To}

	if f.Agent != "" {
		args = append(args, f.Agent)
		clauses = append(clauses, fmt.Sprintf("agent_name = $%d", len(args)))
	}
	if f.Finalized != nil {
		args = append(args, *f.Finalized)
		clauses = append(clauses, fmt.Sprintf("finalized = $%d", len(args)))
	}
	if f.Stage != nil {
		args = append(args, string(*f.Stage))
		clauses = append(clauses, fmt.Sprintf("followup_stage = $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *Reader) tableErr(table string, err error) error {
	metrics.StoreErrors.WithLabelValues(table).Inc()
	return fmt.Errorf("query %s: %w", table, err)
}

func (r *Reader) scanConversations(rows pgx.Rows, table string) ([]models.ConversationRecord, error) {
	defer rows.Close()

	var records []models.ConversationRecord
	for rows.Next() {
		var rec models.ConversationRecord
		var stage string
		if err := rows.Scan(&rec.ID, &rec.Phone, &rec.Name, &rec.AgentName, &rec.Finalized, &stage, &rec.CreatedAt); err != nil {
			return nil, r.tableErr(table, err)
		}
		rec.Stage = models.FollowUpStage(stage)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.tableErr(table, err)
	}
	return records, nil
}

// Conversations returns all conversation records matching the filter,
// ordered by timestamp ascending (encounter order for the reducers).
func (r *Reader) Conversations(ctx context.Context, f models.Filter) ([]models.ConversationRecord, error) {
	where, args := conversationFilter(f)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY created_at ASC",
		conversationColumns, pgx.Identifier{r.tables.Conversations}.Sanitize(), where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.tableErr(r.tables.Conversations, err)
	}
	return r.scanConversations(rows, r.tables.Conversations)
}

// ConversationsPage returns one page of matching conversations ordered
// by timestamp descending, plus the exact total computed by the store.
func (r *Reader) ConversationsPage(ctx context.Context, f models.Filter, page, pageSize int) ([]models.ConversationRecord, int, error) {
	where, args := conversationFilter(f)
	table := pgx.Identifier{r.tables.Conversations}.Sanitize()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.tableErr(r.tables.Conversations, err)
	}

	offset := (page - 1) * pageSize
	pageQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		conversationColumns, table, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, pageQuery, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, r.tableErr(r.tables.Conversations, err)
	}

	records, err := r.scanConversations(rows, r.tables.Conversations)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Messages returns all message records in the half-open range
// [from, to), ordered first by phone and then by timestamp ascending.
// That ordering is what the response-time pairing walk relies on.
func (r *Reader) Messages(ctx context.Context, from, to time.Time) ([]models.MessageRecord, error) {
	query := fmt.Sprintf(
		"SELECT id, phone, payload, created_at FROM %s WHERE created_at >= $1 AND created_at < $2 ORDER BY phone ASC, created_at ASC",
		pgx.Identifier{r.tables.Messages}.Sanitize())

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, r.tableErr(r.tables.Messages, err)
	}
	defer rows.Close()

	var records []models.MessageRecord
	for rows.Next() {
		var rec models.MessageRecord
		if err := rows.Scan(&rec.ID, &rec.Phone, &rec.Payload, &rec.CreatedAt); err != nil {
			return nil, r.tableErr(r.tables.Messages, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.tableErr(r.tables.Messages, err)
	}
	return records, nil
}

// DistinctAgents returns every agent name observed across the entire
// conversation table, ignoring any date filter. Unbounded cost on large
// tables; dropdowns need values outside the current window.
func (r *Reader) DistinctAgents(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT agent_name FROM %s WHERE agent_name <> '' ORDER BY agent_name",
		pgx.Identifier{r.tables.Conversations}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.tableErr(r.tables.Conversations, err)
	}
	defer rows.Close()

	var agents []string
	for rows.Next() {
		var agent string
		if err := rows.Scan(&agent); err != nil {
			return nil, r.tableErr(r.tables.Conversations, err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, r.tableErr(r.tables.Conversations, err)
	}
	return agents, nil
}

// DistinctStages returns every follow-up stage value observed across
// the entire conversation table, ignoring any date filter.
func (r *Reader) DistinctStages(ctx context.Context) ([]models.FollowUpStage, error) {
	query := fmt.Sprintf("SELECT DISTINCT followup_stage FROM %s WHERE followup_stage <> '' ORDER BY followup_stage",
		pgx.Identifier{r.tables.Conversations}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.tableErr(r.tables.Conversations, err)
	}
	defer rows.Close()

	var stages []models.FollowUpStage
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, r.tableErr(r.tables.Conversations, err)
		}
		stages = append(stages, models.FollowUpStage(stage))
	}
	if err := rows.Err(); err != nil {
		return nil, r.tableErr(r.tables.Conversations, err)
	}
	return stages, nil
}
