package postgres

import (
	"context"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Uow roda cada operação do ledger numa transação REPEATABLE READ.
// Chamadas aninhadas entram na transação que já está no contexto.
type Uow struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.RepeatableRead}}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := gateway.TransactionFrom(ctx); nested {
		return fn(ctx)
	}

	// BeginTxFunc faz rollback em erro ou pânico e commit no caso feliz
	return pgx.BeginTxFunc(ctx, u.pool, u.opts, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, gateway.TransactionKey, tx))
	})
}
