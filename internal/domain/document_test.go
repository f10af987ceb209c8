package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "valid raw", input: "52998224725", want: true},
		{name: "valid formatted", input: "529.982.247-25", want: true},
		{name: "another valid", input: "11144477735", want: true},
		{name: "all identical digits", input: "11111111111", want: false},
		{name: "all zeros", input: "00000000000", want: false},
		{name: "wrong first check digit", input: "52998224735", want: false},
		{name: "wrong second check digit", input: "52998224726", want: false},
		{name: "too short", input: "5299822472", want: false},
		{name: "too long", input: "529982247250", want: false},
		{name: "letters", input: "5299822472a", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCPF(tt.input))
		})
	}
}

func TestValidateCPF_SingleDigitMutationIsRejected(t *testing.T) {
	for _, valid := range []string{"52998224725", "11144477735"} {
		for pos := 0; pos < len(valid); pos++ {
			for d := 0; d <= 9; d++ {
				digit := strconv.Itoa(d)
				if valid[pos:pos+1] == digit {
					continue
				}
				mutated := valid[:pos] + digit + valid[pos+1:]
				assert.False(t, ValidateCPF(mutated), "mutation %s of %s should be invalid", mutated, valid)
			}
		}
	}
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "123", FormatCPF("123"))
}

func TestValidateCNPJ(t *testing.T) {
	assert.True(t, ValidateCNPJ("11.222.333/0001-81"))
	assert.True(t, ValidateCNPJ("11444777000161"))
	assert.False(t, ValidateCNPJ("11222333000180"))
	assert.False(t, ValidateCNPJ("00000000000000"))
	assert.False(t, ValidateCNPJ("1122233300018"))
}
