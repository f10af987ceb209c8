package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
)

// BalanceService expõe leitura e mutação dos saldos (saldo e saldo_plano).
// Mutações aplicam um delta sob o lock do usuário e gravam saldo + extrato juntos.
type BalanceService struct {
	unit    ledgerUnit
	events  *EventDispatcher
	metrics MetricsRecorder
	now     Clock
}

func NewBalanceService(
	ledgerRepo gateway.LedgerRepository,
	txManager gateway.TransactionManager,
	locker gateway.Locker,
	events *EventDispatcher,
	metrics MetricsRecorder,
) *BalanceService {
	return &BalanceService{
		unit: ledgerUnit{
			ledgerRepository:   ledgerRepo,
			transactionManager: txManager,
			locker:             locker,
		},
		events:  events,
		metrics: metricsOrNoop(metrics),
		now:     time.Now,
	}
}

func (s *BalanceService) GetWalletBalance(ctx context.Context, userID string) (int64, error) {
	return s.unit.ledgerRepository.GetWalletBalance(ctx, userID)
}

func (s *BalanceService) GetPlanBalance(ctx context.Context, userID string) (int64, error) {
	return s.unit.ledgerRepository.GetPlanBalance(ctx, userID)
}

func (s *BalanceService) GetBalance(ctx context.Context, userID string) (domain.Balance, error) {
	wallet, err := s.GetWalletBalance(ctx, userID)
	if err != nil {
		return domain.Balance{}, err
	}
	plan, err := s.GetPlanBalance(ctx, userID)
	if err != nil {
		return domain.Balance{}, err
	}
	return domain.Balance{UserID: userID, Wallet: wallet, Plan: plan}, nil
}

// GetTotalAvailableBalance soma carteira e plano.
func (s *BalanceService) GetTotalAvailableBalance(ctx context.Context, userID string) (int64, error) {
	b, err := s.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return b.Total(), nil
}

// UpdateWalletBalance sobrescreve o saldo da carteira (ajuste administrativo).
func (s *BalanceService) UpdateWalletBalance(ctx context.Context, userID string, value int64) error {
	return s.overwrite(ctx, userID, domain.BalanceWallet, value)
}

func (s *BalanceService) UpdatePlanBalance(ctx context.Context, userID string, value int64) error {
	return s.overwrite(ctx, userID, domain.BalancePlan, value)
}

func (s *BalanceService) CreditWallet(ctx context.Context, userID string, amount int64, description string) (*domain.Transaction, error) {
	return s.mutate(ctx, "credit_wallet", userID, domain.BalanceWallet, amount, false, description)
}

func (s *BalanceService) DebitWallet(ctx context.Context, userID string, amount int64, description string) (*domain.Transaction, error) {
	return s.mutate(ctx, "debit_wallet", userID, domain.BalanceWallet, amount, true, description)
}

func (s *BalanceService) CreditPlan(ctx context.Context, userID string, amount int64, description string) (*domain.Transaction, error) {
	return s.mutate(ctx, "credit_plan", userID, domain.BalancePlan, amount, false, description)
}

// Consume cobra uma consulta: primeiro do saldo do plano, o restante da carteira.
func (s *BalanceService) Consume(ctx context.Context, userID string, amount int64, description string) ([]domain.Transaction, error) {
	var (
		created []domain.Transaction
		balance domain.Balance
	)
	now := s.now().UTC()

	err := s.unit.run(ctx, userID, func(ctx context.Context, repo gateway.LedgerRepository) error {
		wallet, err := repo.GetWalletBalance(ctx, userID)
		if err != nil {
			return err
		}
		plan, err := repo.GetPlanBalance(ctx, userID)
		if err != nil {
			return err
		}
		balance = domain.Balance{UserID: userID, Wallet: wallet, Plan: plan}

		fromPlan, fromWallet, err := balance.SplitConsumption(amount)
		if err != nil {
			return err
		}

		if fromPlan > 0 {
			tx, err := applyDelta(ctx, repo, userID, domain.BalancePlan, plan, -fromPlan, description, now)
			if err != nil {
				return err
			}
			balance.Plan = tx.NewBalance
			created = append(created, tx)
		}
		if fromWallet > 0 {
			tx, err := applyDelta(ctx, repo, userID, domain.BalanceWallet, wallet, -fromWallet, description, now)
			if err != nil {
				return err
			}
			balance.Wallet = tx.NewBalance
			created = append(created, tx)
		}
		return nil
	})
	s.metrics.RecordBalanceMutation("consume", err)
	if err != nil {
		return nil, fmt.Errorf("falha ao consumir saldo de %s: %w", userID, err)
	}

	total := balance.Total()
	s.events.TransactionsCreated(ctx, userID, created...)
	s.events.BalanceUpdated(ctx, userID, &total, true)
	return created, nil
}

// RecordTransaction grava uma entrada no extrato sem alterar saldos.
func (s *BalanceService) RecordTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	if tx.ID == "" {
		tx.ID = newID()
	}
	if tx.Date.IsZero() {
		tx.Date = s.now().UTC()
	}
	if tx.Status == "" {
		tx.Status = domain.TransactionConfirmed
	}
	return s.unit.run(ctx, userID, func(ctx context.Context, repo gateway.LedgerRepository) error {
		return repo.RecordTransaction(ctx, userID, tx)
	})
}

func (s *BalanceService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.unit.ledgerRepository.ListTransactions(ctx, userID)
}

func (s *BalanceService) ListPayments(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.unit.ledgerRepository.ListPayments(ctx, userID)
}

// GetUserPlan retorna nil se o usuário não tem plano.
func (s *BalanceService) GetUserPlan(ctx context.Context, userID string) (*domain.UserPlan, error) {
	return s.unit.ledgerRepository.GetUserPlan(ctx, userID)
}

func (s *BalanceService) mutate(ctx context.Context, operation, userID string, balanceType domain.BalanceType, amount int64, debit bool, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		s.metrics.RecordBalanceMutation(operation, domain.ErrInvalidAmount)
		return nil, domain.ErrInvalidAmount
	}
	delta := amount
	if debit {
		delta = -amount
	}

	var created domain.Transaction
	err := s.unit.run(ctx, userID, func(ctx context.Context, repo gateway.LedgerRepository) error {
		current, err := readBalance(ctx, repo, userID, balanceType)
		if err != nil {
			return err
		}
		created, err = applyDelta(ctx, repo, userID, balanceType, current, delta, description, s.now().UTC())
		return err
	})
	s.metrics.RecordBalanceMutation(operation, err)
	if err != nil {
		return nil, fmt.Errorf("falha em %s (usuário %s): %w", operation, userID, err)
	}

	s.events.TransactionsCreated(ctx, userID, created)
	s.emitTotal(ctx, userID)
	return &created, nil
}

func (s *BalanceService) overwrite(ctx context.Context, userID string, balanceType domain.BalanceType, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: balance cannot be negative", domain.ErrInvalidArgument)
	}
	err := s.unit.run(ctx, userID, func(ctx context.Context, repo gateway.LedgerRepository) error {
		if balanceType == domain.BalancePlan {
			return repo.UpdatePlanBalance(ctx, userID, value)
		}
		return repo.UpdateWalletBalance(ctx, userID, value)
	})
	s.metrics.RecordBalanceMutation("set_"+string(balanceType), err)
	if err != nil {
		return err
	}
	s.emitTotal(ctx, userID)
	return nil
}

// emitTotal envia balanceUpdated com o total atual; sem total se a leitura falhar.
func (s *BalanceService) emitTotal(ctx context.Context, userID string) {
	var newBalance *int64
	if total, err := s.GetTotalAvailableBalance(ctx, userID); err == nil {
		newBalance = &total
	}
	s.events.BalanceUpdated(ctx, userID, newBalance, true)
}

func readBalance(ctx context.Context, repo gateway.LedgerRepository, userID string, balanceType domain.BalanceType) (int64, error) {
	if balanceType == domain.BalancePlan {
		return repo.GetPlanBalance(ctx, userID)
	}
	return repo.GetWalletBalance(ctx, userID)
}

// applyDelta grava o novo saldo e a entrada correspondente no extrato.
func applyDelta(
	ctx context.Context,
	repo gateway.LedgerRepository,
	userID string,
	balanceType domain.BalanceType,
	current, delta int64,
	description string,
	now time.Time,
) (domain.Transaction, error) {
	next, err := domain.ApplyDelta(current, delta)
	if err != nil {
		return domain.Transaction{}, err
	}

	if balanceType == domain.BalancePlan {
		err = repo.UpdatePlanBalance(ctx, userID, next)
	} else {
		err = repo.UpdateWalletBalance(ctx, userID, next)
	}
	if err != nil {
		return domain.Transaction{}, err
	}

	tx := domain.Transaction{
		ID:              newID(),
		Amount:          abs(delta),
		Type:            domain.TransactionCredit,
		Description:     description,
		Date:            now,
		BalanceType:     balanceType,
		Status:          domain.TransactionConfirmed,
		PreviousBalance: current,
		NewBalance:      next,
	}
	if delta < 0 {
		tx.Type = domain.TransactionDebit
	}

	if err := repo.RecordTransaction(ctx, userID, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
