// Package testdb starts a disposable PostgreSQL container with the service
// migrations applied. Tests using it are skipped under -short or when no
// container runtime is available.
package testdb

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
)

var (
	mu   sync.Mutex
	pool *pgxpool.Pool
)

// MigrationsPath resolves the repository migrations directory from this
// file's location.
func MigrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// Pool returns a pool connected to a shared, migrated container. Every call
// truncates the data tables so tests start from an empty store.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	mu.Lock()
	defer mu.Unlock()

	ctx := context.Background()

	if pool == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("storefront_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "failed to start postgres container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "failed to get connection string")

		require.NoError(t, db.Migrate(dsn, "storefront_test", MigrationsPath()), "failed to apply migrations")

		pool, err = pgxpool.New(ctx, dsn)
		require.NoError(t, err, "failed to connect to test database")
	}

	_, err := pool.Exec(ctx, `TRUNCATE TABLE users, addresses, products, carts, orders RESTART IDENTITY`)
	require.NoError(t, err, "failed to truncate tables")

	return pool
}
