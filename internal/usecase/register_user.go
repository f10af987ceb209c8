package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	DefaultUserRole      = "assinante"
	ReferralBonusMessage = "Bônus de indicação"
)

type RegisterUserInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"full_name" validate:"required"`
	UserRole     string `json:"user_role" validate:"omitempty,oneof=assinante suporte"`
	AceiteTermos bool   `json:"aceite_termos" validate:"required"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type RegisterUserOutput struct {
	User          gateway.RegisteredUser `json:"user"`
	Token         string                 `json:"token,omitempty"`
	SessionToken  string                 `json:"session_token,omitempty"`
	ReferralBonus int64                  `json:"referral_bonus"`
	BonusCredited bool                   `json:"bonus_credited"`
	Message       string                 `json:"message,omitempty"`
}

type RegisterUserUseCase struct {
	registry gateway.UserRegistry
	balances *BalanceService
	validate *validator.Validate
}

func NewRegisterUserUseCase(registry gateway.UserRegistry, balances *BalanceService) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		registry: registry,
		balances: balances,
		validate: validator.New(),
	}
}

// Execute cria a conta na API remota e credita o bônus de indicação na carteira.
// Falha no crédito do bônus não desfaz o cadastro.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	input.ReferralCode = strings.TrimSpace(input.ReferralCode)
	if input.UserRole == "" {
		input.UserRole = DefaultUserRole
	}

	if err := uc.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	result, err := uc.registry.Register(ctx, gateway.RegisterRequest{
		Email:        input.Email,
		Password:     input.Password,
		FullName:     input.FullName,
		UserRole:     input.UserRole,
		AceiteTermos: input.AceiteTermos,
		ReferralCode: input.ReferralCode,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao registrar usuário: %w", err)
	}

	out := &RegisterUserOutput{
		User:          result.User,
		Token:         result.Token,
		SessionToken:  result.SessionToken,
		ReferralBonus: result.ReferralBonus,
		Message:       result.Message,
	}

	if result.ReferralBonus > 0 && result.User.ID != "" {
		if _, err := uc.balances.CreditWallet(ctx, result.User.ID, result.ReferralBonus, ReferralBonusMessage); err != nil {
			log.Error().Err(err).Str("user_id", result.User.ID).Msg("Erro ao creditar bônus de indicação")
		} else {
			out.BonusCredited = true
		}
	}

	return out, nil
}
