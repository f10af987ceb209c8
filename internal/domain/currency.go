package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatBRL formata centavos no padrão brasileiro: R$ 1.234,56
func FormatBRL(cents int64) string {
	sign := ""
	amount := decimal.NewFromInt(cents)
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	reais := amount.Div(hundred).Truncate(0)
	centavos := amount.Sub(reais.Mul(hundred)).IntPart()

	digits := reais.String()
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}

	frac := decimal.NewFromInt(centavos).String()
	if centavos < 10 {
		frac = "0" + frac
	}

	return sign + "R$ " + grouped.String() + "," + frac
}

// ReaisToCents converte o valor em reais vindo da API remota (float) para centavos.
func ReaisToCents(reais float64) int64 {
	return decimal.NewFromFloat(reais).Mul(hundred).Round(0).IntPart()
}

func CentsToReais(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}
