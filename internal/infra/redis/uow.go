package redis

import (
	"context"
	"fmt"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
	"github.com/redis/go-redis/v9"
)

// Uow acumula as escritas e aplica tudo num único MULTI/EXEC.
type Uow struct {
	client *redis.Client
}

func NewUow(client *redis.Client) *Uow {
	return &Uow{client: client}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := gateway.TransactionFrom(ctx); ok {
		return fn(ctx)
	}

	batch := kvstore.NewBatch()
	if err := fn(context.WithValue(ctx, gateway.TransactionKey, batch)); err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}

	_, err := u.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		batch.Each(func(key string, value []byte) {
			if value == nil {
				pipe.Del(ctx, ledgerPrefix+key)
				return
			}
			pipe.Set(ctx, ledgerPrefix+key, value, 0)
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit ledger batch: %w", err)
	}
	return nil
}
