package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBalanceService(f *ledgerFixture, notifier gateway.BalanceNotifier) *usecase.BalanceService {
	return usecase.NewBalanceService(f.repo, f.uow, f.locker, usecase.NewEventDispatcher(nil, notifier), nil)
}

func TestBalanceService_CreditAndDebitWallet(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	notifier := &recordingNotifier{}
	svc := newBalanceService(f, notifier)

	credit, err := svc.CreditWallet(ctx, "u1", 10000, "Depósito")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionCredit, credit.Type)
	assert.Equal(t, int64(0), credit.PreviousBalance)
	assert.Equal(t, int64(10000), credit.NewBalance)

	debit, err := svc.DebitWallet(ctx, "u1", 2500, "Consulta CPF")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionDebit, debit.Type)
	assert.Equal(t, int64(2500), debit.Amount)
	assert.Equal(t, int64(7500), debit.NewBalance)

	wallet, err := svc.GetWalletBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(7500), wallet)

	txs, err := svc.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, debit.ID, txs[0].ID, "mais recente primeiro")
	assert.Equal(t, credit.ID, txs[1].ID)

	events := notifier.Events()
	require.Len(t, events, 2)
	require.NotNil(t, events[1].NewBalance)
	assert.Equal(t, int64(7500), *events[1].NewBalance)
	assert.True(t, events[1].ShouldAnimate)
}

func TestBalanceService_DebitBelowZeroWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	svc := newBalanceService(f, nil)

	_, err := svc.CreditWallet(ctx, "u1", 1000, "Depósito")
	require.NoError(t, err)

	_, err = svc.DebitWallet(ctx, "u1", 1001, "Consulta")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	wallet, _ := svc.GetWalletBalance(ctx, "u1")
	assert.Equal(t, int64(1000), wallet)
	txs, _ := svc.ListTransactions(ctx, "u1")
	assert.Len(t, txs, 1)
}

func TestBalanceService_InvalidAmounts(t *testing.T) {
	ctx := context.Background()
	svc := newBalanceService(newLedgerFixture(), nil)

	_, err := svc.CreditWallet(ctx, "u1", 0, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = svc.DebitWallet(ctx, "u1", -5, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = svc.CreditPlan(ctx, "u1", -1, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.ErrorIs(t, svc.UpdateWalletBalance(ctx, "u1", -1), domain.ErrInvalidArgument)
	assert.ErrorIs(t, svc.UpdatePlanBalance(ctx, "u1", -1), domain.ErrInvalidArgument)
}

func TestBalanceService_UpdateAndTotal(t *testing.T) {
	ctx := context.Background()
	svc := newBalanceService(newLedgerFixture(), nil)

	require.NoError(t, svc.UpdateWalletBalance(ctx, "u1", 1500))
	require.NoError(t, svc.UpdatePlanBalance(ctx, "u1", 4000))

	balance, err := svc.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{UserID: "u1", Wallet: 1500, Plan: 4000}, balance)

	total, err := svc.GetTotalAvailableBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5500), total)

	txs, _ := svc.ListTransactions(ctx, "u1")
	assert.Empty(t, txs)
}

func TestBalanceService_ConsumeDrawsPlanFirst(t *testing.T) {
	ctx := context.Background()
	svc := newBalanceService(newLedgerFixture(), nil)

	require.NoError(t, svc.UpdateWalletBalance(ctx, "u1", 1000))
	require.NoError(t, svc.UpdatePlanBalance(ctx, "u1", 300))

	txs, err := svc.Consume(ctx, "u1", 500, "Consulta CPF")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.BalancePlan, txs[0].BalanceType)
	assert.Equal(t, int64(300), txs[0].Amount)
	assert.Equal(t, domain.BalanceWallet, txs[1].BalanceType)
	assert.Equal(t, int64(200), txs[1].Amount)

	balance, _ := svc.GetBalance(ctx, "u1")
	assert.Equal(t, int64(800), balance.Wallet)
	assert.Equal(t, int64(0), balance.Plan)

	_, err = svc.Consume(ctx, "u1", 801, "Consulta CNPJ")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestBalanceService_RecordTransactionFillsDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newBalanceService(newLedgerFixture(), nil)

	require.NoError(t, svc.RecordTransaction(ctx, "u1", domain.Transaction{
		Amount:      100,
		Type:        domain.TransactionCredit,
		Description: "Ajuste",
		BalanceType: domain.BalanceWallet,
	}))

	txs, err := svc.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.NotEmpty(t, txs[0].ID)
	assert.False(t, txs[0].Date.IsZero())
	assert.Equal(t, domain.TransactionConfirmed, txs[0].Status)
}

func TestBalanceService_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	svc := newBalanceService(f, nil)
	require.NoError(t, svc.UpdateWalletBalance(ctx, "u1", 1000))

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.DebitWallet(ctx, "u1", 30, "Consulta"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	wallet, err := svc.GetWalletBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 33, succeeded)
	assert.Equal(t, int64(1000-33*30), wallet)

	txs, _ := svc.ListTransactions(ctx, "u1")
	assert.Len(t, txs, succeeded)
}

func TestBalanceService_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, gateway.LedgerExchange, gateway.RoutingTransactionCreate, mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, gateway.LedgerExchange, gateway.RoutingBalanceUpdated, mock.Anything).Return(assert.AnError).Once()

	svc := usecase.NewBalanceService(f.repo, f.uow, f.locker, usecase.NewEventDispatcher(publisher, nil), nil)

	_, err := svc.CreditPlan(ctx, "u1", 4000, "Crédito de plano")
	require.NoError(t, err, "falha de publicação não derruba a operação")
	publisher.AssertExpectations(t)
}
