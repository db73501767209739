package repository_test

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:17.6-alpine3.22"

// startPostgres runs a disposable PostgreSQL container and returns a pool
// over a database migrated with the embedded schema.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, *pgxpool.Pool, error) {
	pc, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("storefront"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := pc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(pc)
		return nil, nil, fmt.Errorf("pc.ConnectionString: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = testcontainers.TerminateContainer(pc)
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := repository.MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		_ = testcontainers.TerminateContainer(pc)
		return nil, nil, fmt.Errorf("repository.MigratePostgres: %w", err)
	}

	return pc, pool, nil
}
