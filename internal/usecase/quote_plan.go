package usecase

import (
	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/shopspring/decimal"
)

type PlanQuote struct {
	PlanName            string          `json:"plan_name"`
	Tier                string          `json:"tier,omitempty"`
	BasePrice           int64           `json:"base_price"`
	DiscountedPrice     int64           `json:"discounted_price"`
	Percentage          decimal.Decimal `json:"percentage"`
	HasDiscount         bool            `json:"has_discount"`
	FormattedBase       string          `json:"formatted_base"`
	FormattedDiscounted string          `json:"formatted_discounted"`
}

// QuotePlanUseCase calcula o preço de um plano para um nível de desconto.
type QuotePlanUseCase struct {
	catalog gateway.PlanCatalog
}

func NewQuotePlanUseCase(catalog gateway.PlanCatalog) *QuotePlanUseCase {
	return &QuotePlanUseCase{catalog: catalog}
}

func (uc *QuotePlanUseCase) Plans() []domain.Plan {
	return uc.catalog.List()
}

func (uc *QuotePlanUseCase) Execute(planName, tier string) (*PlanQuote, error) {
	plan, err := uc.catalog.Get(planName)
	if err != nil {
		return nil, err
	}

	result, err := domain.NewDiscountCalculatorFromPlans(uc.catalog.List()).Calculate(plan.Price, tier)
	if err != nil {
		return nil, err
	}

	return &PlanQuote{
		PlanName:            plan.Name,
		Tier:                tier,
		BasePrice:           result.BasePrice,
		DiscountedPrice:     result.DiscountedPrice,
		Percentage:          result.Percentage,
		HasDiscount:         result.HasDiscount,
		FormattedBase:       domain.FormatBRL(result.BasePrice),
		FormattedDiscounted: domain.FormatBRL(result.DiscountedPrice),
	}, nil
}
