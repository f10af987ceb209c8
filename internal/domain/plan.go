package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan é um dado de referência do catálogo (somente leitura para a compra).
// Discount é o percentual que o plano concede em consultas e preços.
type Plan struct {
	Name            string          `json:"name" yaml:"name"`
	Price           int64           `json:"price" yaml:"price"`
	BillingPeriod   string          `json:"billing_period" yaml:"billing_period"`
	Discount        decimal.Decimal `json:"discount" yaml:"-"`
	SelectedModules []string        `json:"selectedModules" yaml:"selected_modules"`
}

// UserPlan é o plano ativo de um usuário (user_plan_<userId>).
type UserPlan struct {
	Name        string          `json:"name"`
	Discount    decimal.Decimal `json:"discount"`
	PurchasedAt time.Time       `json:"purchased_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func (p *UserPlan) IsActive(now time.Time) bool {
	return p != nil && p.Name != "" && now.Before(p.ExpiresAt)
}

// Payment é uma linha de payment_history_<userId>.
type Payment struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	PlanName string          `json:"plan_name"`
	Amount   int64           `json:"amount"`
	Discount decimal.Decimal `json:"discount"`
	Method   string          `json:"method"`
	Status   string          `json:"status"`
	Date     time.Time       `json:"date"`
}

// BonusConfig é o valor global do bônus de indicação, em centavos.
type BonusConfig struct {
	ReferralBonusAmount int64
	FetchedAt           time.Time
}

// BalanceUpdatedEvent é o contrato do evento balanceUpdated consumido pelos painéis.
type BalanceUpdatedEvent struct {
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
	ShouldAnimate bool      `json:"shouldAnimate"`
	NewBalance    *int64    `json:"newBalance,omitempty"`
}
