package memory

import (
	"context"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
)

// Uow implementa gateway.TransactionManager para o Store em memória.
// As escritas ficam num lote e só são aplicadas se fn retornar nil.
type Uow struct {
	store *Store
}

func NewUow(store *Store) *Uow {
	return &Uow{store: store}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	// Transação aninhada reaproveita o lote de fora
	if _, ok := gateway.TransactionFrom(ctx); ok {
		return fn(ctx)
	}

	batch := kvstore.NewBatch()
	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, batch)

	if err := fn(ctxWithTx); err != nil {
		return err // descarta o lote
	}

	u.store.commit(batch)
	return nil
}
