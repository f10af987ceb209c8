package domain

// Balance representa os dois saldos de um usuário.
// Wallet é o saldo livre (saldo) e Plan o saldo vinculado ao plano (saldo_plano).
// Valores em centavos.
type Balance struct {
	UserID string `json:"user_id"`
	Wallet int64  `json:"saldo"`
	Plan   int64  `json:"saldo_plano"`
}

// Total é o saldo disponível para consumo (carteira + plano).
func (b Balance) Total() int64 {
	return b.Wallet + b.Plan
}

// Métodos de domínio (Lógica pura)

// ApplyDelta calcula o novo saldo sem tocar no storage.
// Nenhum saldo pode ficar negativo depois de uma operação confirmada.
func ApplyDelta(current, delta int64) (int64, error) {
	next := current + delta
	if next < 0 {
		return current, ErrInsufficientFunds
	}
	return next, nil
}

// SplitConsumption divide uma cobrança entre saldo do plano (primeiro) e carteira.
func (b Balance) SplitConsumption(amount int64) (fromPlan, fromWallet int64, err error) {
	if amount <= 0 {
		return 0, 0, ErrInvalidAmount
	}
	if b.Total() < amount {
		return 0, 0, ErrInsufficientFunds
	}
	fromPlan = min(amount, b.Plan)
	fromWallet = amount - fromPlan
	return fromPlan, fromWallet, nil
}
