package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/google/uuid"
)

// Clock permite controlar o tempo nos testes.
type Clock func() time.Time

// MetricsRecorder é o subconjunto de métricas usado pelos casos de uso.
type MetricsRecorder interface {
	RecordPurchase(state string)
	RecordBalanceMutation(operation string, err error)
	RecordBonusLookup(result string)
}

type noopMetrics struct{}

func (noopMetrics) RecordPurchase(string)               {}
func (noopMetrics) RecordBalanceMutation(string, error) {}
func (noopMetrics) RecordBonusLookup(string)            {}

func metricsOrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

func newID() string {
	return uuid.NewString()
}

// ledgerUnit junta o lock do usuário e a transação do ledger.
// Toda mutação de saldo passa por aqui: read-modify-write sob lock e num único commit.
type ledgerUnit struct {
	ledgerRepository   gateway.LedgerRepository
	transactionManager gateway.TransactionManager
	locker             gateway.Locker
}

func (u ledgerUnit) run(ctx context.Context, userID string, fn func(ctx context.Context, repo gateway.LedgerRepository) error) error {
	unlock, err := u.locker.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	return u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		// Recuperar o "crachá" da transação que está dentro do contexto.
		transactionObject, ok := gateway.TransactionFrom(contextWithTx)
		if !ok {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}
		return fn(contextWithTx, u.ledgerRepository.WithTx(transactionObject))
	})
}
