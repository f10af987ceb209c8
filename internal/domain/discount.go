package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountResult é o preço final de um item para um determinado tier.
type DiscountResult struct {
	BasePrice       int64           `json:"base_price"`
	DiscountedPrice int64           `json:"discounted_price"`
	Percentage      decimal.Decimal `json:"percentage"`
	HasDiscount     bool            `json:"has_discount"`
}

// DiscountCalculator aplica o percentual de desconto de cada tier de plano.
// A tabela é imutável depois de criada.
type DiscountCalculator struct {
	tiers map[string]decimal.Decimal
}

// NewDiscountCalculator normaliza os nomes (trim + minúsculas) e limita os percentuais a [0, 100].
func NewDiscountCalculator(tiers map[string]decimal.Decimal) *DiscountCalculator {
	normalized := make(map[string]decimal.Decimal, len(tiers))
	for name, pct := range tiers {
		switch {
		case pct.IsNegative():
			pct = decimal.Zero
		case pct.GreaterThan(hundred):
			pct = hundred
		}
		normalized[normalizeTier(name)] = pct
	}
	return &DiscountCalculator{tiers: normalized}
}

// NewDiscountCalculatorFromPlans monta a tabela a partir do catálogo.
func NewDiscountCalculatorFromPlans(plans []Plan) *DiscountCalculator {
	tiers := make(map[string]decimal.Decimal, len(plans))
	for _, p := range plans {
		tiers[p.Name] = p.Discount
	}
	return NewDiscountCalculator(tiers)
}

// Percentage devolve o desconto do tier; tier desconhecido vale 0%.
func (c *DiscountCalculator) Percentage(tier string) decimal.Decimal {
	pct, ok := c.tiers[normalizeTier(tier)]
	if !ok {
		return decimal.Zero
	}
	return pct
}

// Calculate aplica basePrice * (1 - pct/100), arredondando para o centavo.
func (c *DiscountCalculator) Calculate(basePrice int64, tier string) (DiscountResult, error) {
	if basePrice < 0 {
		return DiscountResult{}, fmt.Errorf("%w: base price %d is negative", ErrInvalidArgument, basePrice)
	}

	pct := c.Percentage(tier)
	factor := hundred.Sub(pct).Div(hundred)
	discounted := decimal.NewFromInt(basePrice).Mul(factor).Round(0).IntPart()

	return DiscountResult{
		BasePrice:       basePrice,
		DiscountedPrice: discounted,
		Percentage:      pct,
		HasDiscount:     pct.IsPositive(),
	}, nil
}

func normalizeTier(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
