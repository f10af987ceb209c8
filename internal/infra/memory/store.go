package memory

import (
	"context"
	"sync"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
)

// Store é o KeyValueStore em memória (testes e desenvolvimento local).
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// WithTx liga o store a um lote; tipos desconhecidos devolvem o próprio store.
func (s *Store) WithTx(tx gateway.TransactionObject) gateway.KeyValueStore {
	batch, ok := tx.(*kvstore.Batch)
	if !ok {
		return s
	}
	return &txStore{base: s, batch: batch}
}

func (s *Store) commit(batch *kvstore.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch.Each(func(key string, value []byte) {
		if value == nil {
			delete(s.data, key)
			return
		}
		s.data[key] = value
	})
}

type txStore struct {
	base  *Store
	batch *kvstore.Batch
}

func (t *txStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, touched := t.batch.Lookup(key); touched {
		if v == nil {
			return nil, domain.ErrKeyNotFound
		}
		return append([]byte(nil), v...), nil
	}
	return t.base.Get(ctx, key)
}

func (t *txStore) Set(ctx context.Context, key string, value []byte) error {
	t.batch.Set(key, value)
	return nil
}

func (t *txStore) Delete(ctx context.Context, key string) error {
	t.batch.Delete(key)
	return nil
}

func (t *txStore) WithTx(tx gateway.TransactionObject) gateway.KeyValueStore {
	return t.base.WithTx(tx)
}
