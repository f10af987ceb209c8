package usecase_test

import (
	"context"
	"strings"
	"sync"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type ledgerFixture struct {
	store  *memory.Store
	repo   *kvstore.LedgerRepository
	uow    *memory.Uow
	locker *memory.KeyedLocker
}

func newLedgerFixture() *ledgerFixture {
	store := memory.NewStore()
	return &ledgerFixture{
		store:  store,
		repo:   kvstore.NewLedgerRepository(store),
		uow:    memory.NewUow(store),
		locker: memory.NewKeyedLocker(),
	}
}

type stubCatalog struct {
	plans []domain.Plan
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{plans: []domain.Plan{
		{Name: "Pré-Pago", Price: 4000, BillingPeriod: "mensal", Discount: decimal.Zero},
		{Name: "Rainha de Ouros", Price: 10000, BillingPeriod: "mensal", Discount: decimal.NewFromInt(5)},
		{Name: "Rei de Espadas", Price: 50000, BillingPeriod: "mensal", Discount: decimal.NewFromInt(50)},
	}}
}

func (c *stubCatalog) List() []domain.Plan { return c.plans }

func (c *stubCatalog) Get(name string) (domain.Plan, error) {
	for _, p := range c.plans {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return domain.Plan{}, domain.ErrPlanNotFound
}

// writeSpy conta as escritas que chegam ao repositório.
type writeSpy struct {
	gateway.LedgerRepository
	mu     *sync.Mutex
	writes *int
	failOn string
}

func newWriteSpy(inner gateway.LedgerRepository) *writeSpy {
	return &writeSpy{LedgerRepository: inner, mu: &sync.Mutex{}, writes: new(int)}
}

func (s *writeSpy) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.writes
}

func (s *writeSpy) touch(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.writes++
	if s.failOn == op {
		return domain.ErrStorageCorruption
	}
	return nil
}

func (s *writeSpy) UpdateWalletBalance(ctx context.Context, userID string, value int64) error {
	if err := s.touch("UpdateWalletBalance"); err != nil {
		return err
	}
	return s.LedgerRepository.UpdateWalletBalance(ctx, userID, value)
}

func (s *writeSpy) UpdatePlanBalance(ctx context.Context, userID string, value int64) error {
	if err := s.touch("UpdatePlanBalance"); err != nil {
		return err
	}
	return s.LedgerRepository.UpdatePlanBalance(ctx, userID, value)
}

func (s *writeSpy) RecordTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	if err := s.touch("RecordTransaction"); err != nil {
		return err
	}
	return s.LedgerRepository.RecordTransaction(ctx, userID, tx)
}

func (s *writeSpy) RecordPayment(ctx context.Context, userID string, payment domain.Payment) error {
	if err := s.touch("RecordPayment"); err != nil {
		return err
	}
	return s.LedgerRepository.RecordPayment(ctx, userID, payment)
}

func (s *writeSpy) SaveUserPlan(ctx context.Context, userID string, plan domain.UserPlan) error {
	if err := s.touch("SaveUserPlan"); err != nil {
		return err
	}
	return s.LedgerRepository.SaveUserPlan(ctx, userID, plan)
}

func (s *writeSpy) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	return &writeSpy{
		LedgerRepository: s.LedgerRepository.WithTx(tx),
		mu:               s.mu,
		writes:           s.writes,
		failOn:           s.failOn,
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	args := m.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.BalanceUpdatedEvent
}

func (n *recordingNotifier) NotifyBalanceUpdated(_ context.Context, event domain.BalanceUpdatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []domain.BalanceUpdatedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.BalanceUpdatedEvent(nil), n.events...)
}

type mockBonusSource struct {
	mock.Mock
}

func (m *mockBonusSource) FetchBonusAmount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Register(ctx context.Context, req gateway.RegisterRequest) (*gateway.RegisterResult, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*gateway.RegisterResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
