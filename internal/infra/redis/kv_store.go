package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
	"github.com/redis/go-redis/v9"
)

const ledgerPrefix = "ledger:"

// KVStore guarda as chaves do ledger como strings JSON no Redis.
type KVStore struct {
	client *redis.Client
	batch  *kvstore.Batch
}

func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{client: client}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.batch != nil {
		if v, touched := s.batch.Lookup(key); touched {
			if v == nil {
				return nil, domain.ErrKeyNotFound
			}
			return v, nil
		}
	}

	val, err := s.client.Get(ctx, ledgerPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if s.batch != nil {
		s.batch.Set(key, value)
		return nil
	}
	if err := s.client.Set(ctx, ledgerPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if s.batch != nil {
		s.batch.Delete(key)
		return nil
	}
	if err := s.client.Del(ctx, ledgerPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (s *KVStore) WithTx(tx gateway.TransactionObject) gateway.KeyValueStore {
	batch, ok := tx.(*kvstore.Batch)
	if !ok {
		return s
	}
	return &KVStore{client: s.client, batch: batch}
}
