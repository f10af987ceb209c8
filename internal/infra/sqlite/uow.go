package sqlite

import (
	"context"
	"fmt"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
)

type Uow struct {
	store *KVStore
}

func NewUow(store *KVStore) *Uow {
	return &Uow{store: store}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := gateway.TransactionFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := u.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(context.WithValue(ctx, gateway.TransactionKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
