package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
)

// Layout das chaves (herdado do painel web).
const (
	walletBalancePrefix = "wallet_balance_"
	planBalancePrefix   = "plan_balance_"
	transactionsPrefix  = "balance_transactions_"
	paymentsPrefix      = "payment_history_"
	userPlanPrefix      = "user_plan_"
)

func WalletBalanceKey(userID string) string { return walletBalancePrefix + userID }
func PlanBalanceKey(userID string) string   { return planBalancePrefix + userID }
func TransactionsKey(userID string) string  { return transactionsPrefix + userID }
func PaymentsKey(userID string) string      { return paymentsPrefix + userID }
func UserPlanKey(userID string) string      { return userPlanPrefix + userID }

// LedgerRepository implementa gateway.LedgerRepository sobre qualquer KeyValueStore.
// Todos os valores são JSON.
type LedgerRepository struct {
	store gateway.KeyValueStore
}

func NewLedgerRepository(store gateway.KeyValueStore) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) GetWalletBalance(ctx context.Context, userID string) (int64, error) {
	return r.getAmount(ctx, WalletBalanceKey(userID))
}

func (r *LedgerRepository) GetPlanBalance(ctx context.Context, userID string) (int64, error) {
	return r.getAmount(ctx, PlanBalanceKey(userID))
}

func (r *LedgerRepository) UpdateWalletBalance(ctx context.Context, userID string, value int64) error {
	return r.put(ctx, WalletBalanceKey(userID), value)
}

func (r *LedgerRepository) UpdatePlanBalance(ctx context.Context, userID string, value int64) error {
	return r.put(ctx, PlanBalanceKey(userID), value)
}

func (r *LedgerRepository) RecordTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	key := TransactionsKey(userID)
	var list []domain.Transaction
	if _, err := r.get(ctx, key, &list); err != nil {
		return err
	}
	// unshift: mais recente primeiro
	list = append([]domain.Transaction{tx}, list...)
	return r.put(ctx, key, list)
}

func (r *LedgerRepository) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	list := []domain.Transaction{}
	if _, err := r.get(ctx, TransactionsKey(userID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *LedgerRepository) RecordPayment(ctx context.Context, userID string, payment domain.Payment) error {
	key := PaymentsKey(userID)
	var list []domain.Payment
	if _, err := r.get(ctx, key, &list); err != nil {
		return err
	}
	list = append([]domain.Payment{payment}, list...)
	return r.put(ctx, key, list)
}

func (r *LedgerRepository) ListPayments(ctx context.Context, userID string) ([]domain.Payment, error) {
	list := []domain.Payment{}
	if _, err := r.get(ctx, PaymentsKey(userID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetUserPlan retorna (nil, nil) se o usuário nunca comprou um plano.
func (r *LedgerRepository) GetUserPlan(ctx context.Context, userID string) (*domain.UserPlan, error) {
	var plan domain.UserPlan
	found, err := r.get(ctx, UserPlanKey(userID), &plan)
	if err != nil || !found {
		return nil, err
	}
	return &plan, nil
}

func (r *LedgerRepository) SaveUserPlan(ctx context.Context, userID string, plan domain.UserPlan) error {
	return r.put(ctx, UserPlanKey(userID), plan)
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	return &LedgerRepository{store: r.store.WithTx(tx)}
}

func (r *LedgerRepository) getAmount(ctx context.Context, key string) (int64, error) {
	var amount int64
	if _, err := r.get(ctx, key, &amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// get decodifica a chave em dst. Chave ausente não é erro (found=false).
func (r *LedgerRepository) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", domain.ErrStorageCorruption, key, err)
	}
	return true, nil
}

func (r *LedgerRepository) put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
