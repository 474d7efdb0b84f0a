package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// MySQLKV stores values in the kv_entries table created by the schema migrations.
type MySQLKV struct {
	db *sqlx.DB
}

// NewMySQLKV creates a new MySQLKV.
func NewMySQLKV(db *sqlx.DB) *MySQLKV {
	return &MySQLKV{db: db}
}

func (s *MySQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, "SELECT value FROM kv_entries WHERE `key` = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(kv_entries) > %w", err)
	}
	return value, nil
}

func (s *MySQLKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO kv_entries (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
		key, value); err != nil {
		return fmt.Errorf("db.ExecContext(upsert kv_entries) > %w", err)
	}
	return nil
}

var _ KV = (*MySQLKV)(nil)
