package domain

import "strings"

// OnlyDigits remove pontuação de documentos (pontos, traços, barras, espaços).
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF verifica os dois dígitos verificadores (mod 11) de um CPF.
// Entrada malformada retorna false, nunca erro.
func ValidateCPF(cpf string) bool {
	if strings.ContainsFunc(cpf, isForeignRune) {
		return false
	}
	digits := toDigits(OnlyDigits(cpf))
	if len(digits) != 11 || allEqual(digits) {
		return false
	}

	if checkDigit(digits[:9], 10) != digits[9] {
		return false
	}
	return checkDigit(digits[:10], 11) == digits[10]
}

// FormatCPF devolve 000.000.000-00, ou a entrada sem alteração se não tiver 11 dígitos.
func FormatCPF(cpf string) string {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ verifica os dígitos verificadores de um CNPJ (14 dígitos).
func ValidateCNPJ(cnpj string) bool {
	if strings.ContainsFunc(cnpj, isForeignRune) {
		return false
	}
	digits := toDigits(OnlyDigits(cnpj))
	if len(digits) != 14 || allEqual(digits) {
		return false
	}

	if weightedCheck(digits[:12], cnpjFirstWeights) != digits[12] {
		return false
	}
	return weightedCheck(digits[:13], cnpjSecondWeights) == digits[13]
}

// checkDigit: soma ponderada com pesos decrescentes a partir de startWeight.
// Resto 10 ou 11 vira 0.
func checkDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}
	r := 11 - sum%11
	if r >= 10 {
		return 0
	}
	return r
}

func weightedCheck(digits []int, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func toDigits(s string) []int {
	out := make([]int, len(s))
	for i, r := range s {
		out[i] = int(r - '0')
	}
	return out
}

func allEqual(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

// Só aceitamos dígitos e a pontuação usual de documentos.
func isForeignRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return false
	}
	switch r {
	case '.', '-', '/', ' ':
		return false
	}
	return true
}
