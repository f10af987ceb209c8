package domain

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type BalanceType string

const (
	BalanceWallet BalanceType = "wallet"
	BalancePlan   BalanceType = "plan"
)

const TransactionConfirmed = "confirmed"

// Transaction é uma entrada imutável do extrato do usuário.
// As tags seguem o formato já persistido em balance_transactions_<userId>.
type Transaction struct {
	ID              string          `json:"id"`
	Amount          int64           `json:"amount"`
	Type            TransactionType `json:"type"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	BalanceType     BalanceType     `json:"balance_type"`
	Status          string          `json:"status"`
	PreviousBalance int64           `json:"previous_balance"`
	NewBalance      int64           `json:"new_balance"`
}
