package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/migrations"
	"github.com/nikolayk812/storefront/internal/port"
)

type postgresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) port.Storage {
	return &postgresStorage{pool: pool}
}

// MigratePostgres applies the embedded schema. Every migration is idempotent
// and runs in its own transaction.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("fs.ReadFile[%s]: %w", file, err)
		}

		_, err = withTx(ctx, pool, func(tx pgx.Tx) (struct{}, error) {
			if _, err := tx.Exec(ctx, string(content)); err != nil {
				return struct{}{}, fmt.Errorf("tx.Exec[%s]: %w", file, err)
			}
			return struct{}{}, nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *postgresStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM storage_items WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return value, nil
}

func (s *postgresStorage) SetItem(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO storage_items (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}

func (s *postgresStorage) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM storage_items WHERE key = $1`, key); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}
