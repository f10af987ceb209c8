package gateway

import "context"

// BonusSource busca o valor do bônus de indicação na API remota (em centavos).
type BonusSource interface {
	FetchBonusAmount(ctx context.Context) (int64, error)
}

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	UserRole     string `json:"user_role"`
	AceiteTermos bool   `json:"aceite_termos"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type RegisteredUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	UserRole string `json:"user_role"`
}

type RegisterResult struct {
	User          RegisteredUser
	Token         string
	SessionToken  string
	ReferralBonus int64 // centavos
	Message       string
}

// UserRegistry cria contas na API remota.
type UserRegistry interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
}
