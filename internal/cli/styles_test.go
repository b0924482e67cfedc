package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		amount float64
	}{
		{name: "small", amount: 45.9, want: "R$ 45,90"},
		{name: "thousands", amount: 1234.56, want: "R$ 1.234,56"},
		{name: "millions", amount: 1234567.89, want: "R$ 1.234.567,89"},
		{name: "zero", amount: 0, want: "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount))
		})
	}
}

func TestFormatSignedMoney(t *testing.T) {
	income := FormatSignedMoney(30, true)
	assert.Contains(t, income, "+R$ 30,00")

	expense := FormatSignedMoney(45.9, false)
	assert.Contains(t, expense, "-R$ 45,90")
}
