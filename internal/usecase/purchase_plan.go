package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type PurchaseState string

const (
	PurchaseIdle       PurchaseState = "idle"
	PurchaseValidating PurchaseState = "validating"
	PurchaseDebiting   PurchaseState = "debiting"
	PurchaseCrediting  PurchaseState = "crediting"
	PurchaseRecording  PurchaseState = "recording"
	PurchaseNotifying  PurchaseState = "notifying"
	PurchaseDone       PurchaseState = "done"
	PurchaseFailed     PurchaseState = "failed"
)

const DefaultPlanDuration = 30 * 24 * time.Hour

// PurchaseError indica em qual etapa a compra parou.
type PurchaseError struct {
	State PurchaseState
	Err   error
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("compra de plano falhou em %s: %v", e.State, e.Err)
}

func (e *PurchaseError) Unwrap() error {
	return e.Err
}

type PurchasePlanInput struct {
	UserID   string `json:"user_id"`
	PlanName string `json:"plan_name"`
}

type PurchasePlanOutput struct {
	PlanName      string               `json:"plan_name"`
	BasePrice     int64                `json:"base_price"`
	FinalPrice    int64                `json:"final_price"`
	Discount      decimal.Decimal      `json:"discount"`
	WalletBalance int64                `json:"saldo"`
	PlanBalance   int64                `json:"saldo_plano"`
	ExpiresAt     time.Time            `json:"expires_at"`
	Transactions  []domain.Transaction `json:"transactions"`
	State         PurchaseState        `json:"state"`
}

type PurchasePlanUseCase struct {
	unit         ledgerUnit
	catalog      gateway.PlanCatalog
	events       *EventDispatcher
	metrics      MetricsRecorder
	planDuration time.Duration
	now          Clock
}

func NewPurchasePlanUseCase(
	ledgerRepo gateway.LedgerRepository,
	txManager gateway.TransactionManager,
	locker gateway.Locker,
	catalog gateway.PlanCatalog,
	events *EventDispatcher,
	metrics MetricsRecorder,
	planDuration time.Duration,
) *PurchasePlanUseCase {
	if planDuration <= 0 {
		planDuration = DefaultPlanDuration
	}
	return &PurchasePlanUseCase{
		unit: ledgerUnit{
			ledgerRepository:   ledgerRepo,
			transactionManager: txManager,
			locker:             locker,
		},
		catalog:      catalog,
		events:       events,
		metrics:      metricsOrNoop(metrics),
		planDuration: planDuration,
		now:          time.Now,
	}
}

// Execute compra o plano com o saldo da carteira.
// Débito, crédito no plano, pagamento e user_plan são gravados juntos ou nada é gravado.
func (uc *PurchasePlanUseCase) Execute(ctx context.Context, input PurchasePlanInput) (*PurchasePlanOutput, error) {
	out := &PurchasePlanOutput{PlanName: input.PlanName, State: PurchaseIdle}

	fail := func(err error) (*PurchasePlanOutput, error) {
		failedAt := out.State
		out.State = PurchaseFailed
		uc.metrics.RecordPurchase(string(PurchaseFailed))
		log.Warn().Err(err).
			Str("user_id", input.UserID).
			Str("plan", input.PlanName).
			Str("state", string(failedAt)).
			Msg("Compra de plano não concluída")
		return out, &PurchaseError{State: failedAt, Err: err}
	}

	out.State = PurchaseValidating
	if input.UserID == "" {
		return fail(fmt.Errorf("%w: user_id is required", domain.ErrInvalidArgument))
	}
	plan, err := uc.catalog.Get(input.PlanName)
	if err != nil {
		return fail(err)
	}
	out.PlanName = plan.Name
	calculator := domain.NewDiscountCalculatorFromPlans(uc.catalog.List())

	now := uc.now().UTC()
	expiresAt := now.Add(uc.planDuration)
	description := fmt.Sprintf("Compra do plano %s", plan.Name)
	var payment domain.Payment

	err = uc.unit.run(ctx, input.UserID, func(ctx context.Context, repo gateway.LedgerRepository) error {
		// Validating: nada é gravado até o saldo ser confirmado.
		tier := ""
		current, err := repo.GetUserPlan(ctx, input.UserID)
		if err != nil {
			return err
		}
		if current.IsActive(now) {
			tier = current.Name
		}

		quote, err := calculator.Calculate(plan.Price, tier)
		if err != nil {
			return err
		}
		out.BasePrice = quote.BasePrice
		out.FinalPrice = quote.DiscountedPrice
		out.Discount = quote.Percentage

		wallet, err := repo.GetWalletBalance(ctx, input.UserID)
		if err != nil {
			return err
		}
		if wallet < quote.DiscountedPrice {
			return domain.ErrInsufficientBalance
		}
		planBalance, err := repo.GetPlanBalance(ctx, input.UserID)
		if err != nil {
			return err
		}

		out.State = PurchaseDebiting
		debit, err := applyDelta(ctx, repo, input.UserID, domain.BalanceWallet, wallet, -quote.DiscountedPrice, description, now)
		if err != nil {
			return err
		}

		out.State = PurchaseCrediting
		credit, err := applyDelta(ctx, repo, input.UserID, domain.BalancePlan, planBalance, quote.DiscountedPrice, description, now)
		if err != nil {
			return err
		}

		out.State = PurchaseRecording
		payment = domain.Payment{
			ID:       newID(),
			UserID:   input.UserID,
			PlanName: plan.Name,
			Amount:   quote.DiscountedPrice,
			Discount: quote.Percentage,
			Method:   "saldo",
			Status:   domain.TransactionConfirmed,
			Date:     now,
		}
		if err := repo.RecordPayment(ctx, input.UserID, payment); err != nil {
			return err
		}
		if err := repo.SaveUserPlan(ctx, input.UserID, domain.UserPlan{
			Name:        plan.Name,
			Discount:    plan.Discount,
			PurchasedAt: now,
			ExpiresAt:   expiresAt,
		}); err != nil {
			return err
		}

		out.WalletBalance = debit.NewBalance
		out.PlanBalance = credit.NewBalance
		out.ExpiresAt = expiresAt
		out.Transactions = []domain.Transaction{debit, credit}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	out.State = PurchaseNotifying
	total := out.WalletBalance + out.PlanBalance
	uc.events.TransactionsCreated(ctx, input.UserID, out.Transactions...)
	uc.events.BalanceUpdated(ctx, input.UserID, &total, true)
	uc.events.PlanPurchased(ctx, input.UserID, payment, expiresAt)

	out.State = PurchaseDone
	uc.metrics.RecordPurchase(string(PurchaseDone))

	log.Info().
		Str("user_id", input.UserID).
		Str("plan", out.PlanName).
		Int64("final_price", out.FinalPrice).
		Msg("Plano adquirido com sucesso")
	return out, nil
}
