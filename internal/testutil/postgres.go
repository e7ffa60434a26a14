// Package testutil поднимает окружение для интеграционных тестов.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Регистрация драйвера pgx для database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// SkipDockerTestsEnv при значении "true" интеграционные тесты пропускаются.
const SkipDockerTestsEnv = "SKIP_DOCKER_TESTS"

// SkipIfNoDocker пропускает тест в коротком режиме или если контейнеры отключены.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv(SkipDockerTestsEnv) == "true" {
		t.Skip("skipping container-backed test")
	}
}

// StartPostgres запускает контейнер PostgreSQL и возвращает открытое соединение и DSN.
// Если задан TEST_DATABASE_URL, используется внешняя база.
func StartPostgres(t *testing.T) (*sql.DB, string) {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("subsight"),
			postgres.WithUsername("subsight"),
			postgres.WithPassword("subsight"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(time.Minute),
			),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		})

		host, err := pgContainer.Host(ctx)
		require.NoError(t, err)
		port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
		require.NoError(t, err)

		dsn = fmt.Sprintf("postgres://subsight:subsight@%s:%s/subsight?sslmode=disable", host, port.Port())
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.Eventually(t, func() bool {
		return db.PingContext(ctx) == nil
	}, 30*time.Second, 500*time.Millisecond)

	return db, dsn
}
