package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresImage is the image used for integration tests.
const PostgresImage = "postgres:16-alpine"

// schema creates the two logical tables a tenant store exposes, using
// the system-default names.
const schema = `
CREATE TABLE IF NOT EXISTS chat_conversations (
	id uuid PRIMARY KEY,
	phone text NOT NULL,
	client_name text NOT NULL DEFAULT '',
	agent_name text NOT NULL DEFAULT '',
	finalized boolean NOT NULL DEFAULT false,
	followup_stage text NOT NULL DEFAULT '',
	created_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id uuid PRIMARY KEY,
	phone text NOT NULL,
	payload text NOT NULL,
	created_at timestamptz NOT NULL
);
`

// TenantDB holds a shared tenant-store container and connection pool.
type TenantDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
	Host      string
	Port      int
}

var (
	sharedTenantDB     *TenantDB
	sharedTenantDBOnce sync.Once
	sharedTenantDBErr  error
)

// GetTenantDB returns a shared PostgreSQL container seeded with the
// analytics schema. The container is created once and reused across all
// tests in the run.
func GetTenantDB(t *testing.T) *TenantDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTenantDBOnce.Do(func() {
		sharedTenantDB, sharedTenantDBErr = setupTenantDB()
	})

	if sharedTenantDBErr != nil {
		t.Fatalf("Failed to setup tenant database: %v", sharedTenantDBErr)
	}

	return sharedTenantDB
}

func setupTenantDB() (*TenantDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "tenant_test",
			"POSTGRES_USER":     "analytics",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://analytics:test_password@%s:%d/tenant_test", host, port.Int())
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping test database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &TenantDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
		Host:      host,
		Port:      port.Int(),
	}, nil
}
