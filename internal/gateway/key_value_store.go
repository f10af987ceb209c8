package gateway

import "context"

// KeyValueStore é o armazenamento chave/valor por trás do ledger.
// Get retorna domain.ErrKeyNotFound quando a chave não existe.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// WithTx devolve uma visão do store ligada à transação informada.
	WithTx(tx TransactionObject) KeyValueStore
}
