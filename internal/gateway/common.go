package gateway

import "context"

// TransactionObject é o "crachá" opaco que carrega a transação do backend de ledger
// (pgx.Tx, *sql.Tx ou um lote em memória/redis).
type TransactionObject interface{}

// TransactionManager define quem sabe iniciar/comitar transações (UoW).
// Se fn retornar erro nada é persistido.
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionKeyType evita colisão de chaves no contexto
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"

// TransactionFrom recupera o crachá injetado por TransactionManager.Run.
func TransactionFrom(ctx context.Context) (TransactionObject, bool) {
	tx := ctx.Value(TransactionKey)
	return tx, tx != nil
}
