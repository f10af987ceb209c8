package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ledger_kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const (
	getSQL    = `SELECT value FROM ledger_kv WHERE key = $1`
	upsertSQL = `INSERT INTO ledger_kv (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteSQL = `DELETE FROM ledger_kv WHERE key = $1`
)

// dbtx é o que pgxpool.Pool e pgx.Tx têm em comum.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KVStore implementa gateway.KeyValueStore usando pgx/v5
type KVStore struct {
	pool *pgxpool.Pool
	db   dbtx
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool, db: pool}
}

// EnsureSchema cria a tabela do ledger se ainda não existir.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create ledger_kv: %w", err)
	}
	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, getSQL, key).Scan(&value)
	if err != nil {
		// pgx retorna pgx.ErrNoRows, diferente de sql.ErrNoRows
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.Exec(ctx, upsertSQL, key, value); err != nil {
		return fmt.Errorf("failed to upsert key: %w", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, deleteSQL, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// WithTx retorna uma cópia do store usando uma transação específica
func (s *KVStore) WithTx(tx gateway.TransactionObject) gateway.KeyValueStore {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return s
	}
	return &KVStore{pool: s.pool, db: pgTx}
}
