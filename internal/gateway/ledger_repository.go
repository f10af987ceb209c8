package gateway

import (
	"context"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
)

// LedgerRepository define a persistência de saldos e extratos por usuário.
type LedgerRepository interface {
	GetWalletBalance(ctx context.Context, userID string) (int64, error)
	GetPlanBalance(ctx context.Context, userID string) (int64, error)
	UpdateWalletBalance(ctx context.Context, userID string, value int64) error
	UpdatePlanBalance(ctx context.Context, userID string, value int64) error

	// RecordTransaction insere no início do extrato (mais recente primeiro).
	RecordTransaction(ctx context.Context, userID string, tx domain.Transaction) error
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)

	RecordPayment(ctx context.Context, userID string, payment domain.Payment) error
	ListPayments(ctx context.Context, userID string) ([]domain.Payment, error)

	GetUserPlan(ctx context.Context, userID string) (*domain.UserPlan, error)
	SaveUserPlan(ctx context.Context, userID string, plan domain.UserPlan) error

	WithTx(tx TransactionObject) LedgerRepository
}

// PlanCatalog é a fonte dos planos (dados de referência).
type PlanCatalog interface {
	List() []domain.Plan
	Get(name string) (domain.Plan, error)
}
