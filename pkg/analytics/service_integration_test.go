//go:build integration

package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rafaelruch/agendapro-analytics/pkg/analytics"
	"github.com/rafaelruch/agendapro-analytics/pkg/config"
	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
	"github.com/rafaelruch/agendapro-analytics/pkg/testhelpers"
)

func setupService(t *testing.T) (*analytics.Service, store.ConnectionConfig, *testhelpers.TenantDB) {
	t.Helper()
	db := testhelpers.GetTenantDB(t)

	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, "TRUNCATE chat_conversations, chat_messages")
	require.NoError(t, err)

	cfg := &config.Config{
		Tables: config.TableDefaults{Conversations: "chat_conversations", Messages: "chat_messages"},
		Pool:   config.PoolConfig{MaxConns: 5, MinConns: 1},
		Retry:  config.RetryConfig{MaxRetries: 1, InitialDelayMs: 10, MaxDelayMs: 100},
	}
	registry := store.NewRegistry(cfg, zaptest.NewLogger(t))
	t.Cleanup(registry.Close)

	conn := store.ConnectionConfig{
		Endpoint:   fmt.Sprintf("postgres://analytics@%s:%d?sslmode=disable", db.Host, db.Port),
		Database:   "tenant_test",
		Credential: "test_password",
	}
	return analytics.NewService(registry, cfg, zaptest.NewLogger(t)), conn, db
}

func insertConversation(t *testing.T, db *testhelpers.TenantDB, agent string, finalized bool, stage models.FollowUpStage, at time.Time) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO chat_conversations (id, phone, client_name, agent_name, finalized, followup_stage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New(), "+5511999990000", "Cliente", agent, finalized, string(stage), at)
	require.NoError(t, err)
}

func insertMessage(t *testing.T, db *testhelpers.TenantDB, phone, role string, at time.Time) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO chat_messages (id, phone, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), phone, fmt.Sprintf(`{"role":%q,"text":"msg"}`, role), at)
	require.NoError(t, err)
}

func TestService_SummaryEndToEnd(t *testing.T) {
	svc, conn, db := setupService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	insertConversation(t, db, "Ana", true, models.Stage2, base)
	insertConversation(t, db, "Bruno", false, models.StageNone, base.Add(time.Hour))

	summary, err := svc.Summary(ctx, conn, models.Filter{From: base, To: base.Add(24 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Finalized)
	assert.Equal(t, 50.0, summary.ConversionRate)
	assert.Equal(t, 1, summary.StageCounts[models.Stage2])
}

func TestService_ResponseTimeEndToEnd(t *testing.T) {
	svc, conn, db := setupService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	insertMessage(t, db, "+5511999990000", "user", base)
	insertMessage(t, db, "+5511999990000", "model", base.Add(45*time.Second))

	stats, err := svc.ResponseTime(ctx, conn, models.Filter{From: base, To: base.Add(time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SampleCount)
	assert.Equal(t, 45.0, stats.AverageSeconds)
	assert.Equal(t, "45s", stats.Formatted)
}

func TestService_DashboardEndToEnd(t *testing.T) {
	svc, conn, db := setupService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	insertConversation(t, db, "Ana", true, models.Stage1, base)
	insertMessage(t, db, "+5511999990000", "user", base)
	insertMessage(t, db, "+5511999990000", "model", base.Add(10*time.Second))

	dashboard, err := svc.Dashboard(ctx, conn, models.Filter{From: base, To: base.Add(24 * time.Hour)})
	require.NoError(t, err)

	assert.Nil(t, dashboard.Errors)
	require.NotNil(t, dashboard.Summary)
	assert.Equal(t, 1, dashboard.Summary.Total)
	assert.Len(t, dashboard.HourlyTrend, 24)
	require.NotNil(t, dashboard.ResponseTime)
	assert.Equal(t, 1, dashboard.ResponseTime.SampleCount)
}

func TestService_HealthCheckEndToEnd(t *testing.T) {
	svc, conn, _ := setupService(t)

	status, err := svc.HealthCheck(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, models.HealthOK, status.State)
}

func TestService_FilterOptionsEndToEnd(t *testing.T) {
	svc, conn, db := setupService(t)
	ctx := context.Background()

	insertConversation(t, db, "Ana", false, models.Stage1, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	insertConversation(t, db, "Bruno", false, models.Stage4, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	options, err := svc.FilterOptions(ctx, conn)
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana", "Bruno"}, options.Agents)
	assert.Equal(t, []models.FollowUpStage{models.Stage1, models.Stage4}, options.Stages)
}
