package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"weather-client/internal/domain/model"
)

const (
	createKeyValueTable = `CREATE TABLE IF NOT EXISTS key_value_entries (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	selectValue = `SELECT value FROM key_value_entries WHERE key = $1`
	upsertValue = `INSERT INTO key_value_entries (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteValues = `DELETE FROM key_value_entries WHERE key = ANY($1)`
)

type SQLStore struct {
	DB *sql.DB
}

var _ KeyValueStore = (*SQLStore)(nil)

// NewSQLStore creates the key_value_entries table when missing and returns a store over it
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, createKeyValueTable); err != nil {
		return nil, fmt.Errorf("failed to create key_value_entries: %w", err)
	}
	return &SQLStore{DB: db}, nil
}

func (store *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := store.DB.QueryRowContext(ctx, selectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (store *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := store.DB.ExecContext(ctx, upsertValue, key, value)
	return err
}

func (store *SQLStore) Remove(ctx context.Context, key string) error {
	return store.MultiRemove(ctx, []string{key})
}

func (store *SQLStore) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := store.DB.ExecContext(ctx, deleteValues, pq.Array(keys))
	return err
}

func (store *SQLStore) Health() model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.DB.PingContext(ctx); err != nil {
		return down(err)
	}
	return up(map[string]string{"driver": "sql"})
}
