package installment

import (
	"testing"
	"time"

	"github.com/grana-app/grana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_Monthly(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	occ := Expand(base, model.FrequencyMonthly, 4)
	require.Len(t, occ, 4)

	assert.Equal(t, base, occ[0].Date)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), occ[1].Date)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), occ[2].Date)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), occ[3].Date)
	for i, o := range occ {
		assert.Equal(t, i, o.Index)
	}
}

func TestExpand_NoDriftAcrossShortMonths(t *testing.T) {
	// Advancing from the base each time, Jan 31 + 2 months lands on Mar 31.
	// Chained month-by-month arithmetic would have drifted through Mar 2/3.
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	occ := Expand(base, model.FrequencyMonthly, 3)
	require.Len(t, occ, 3)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), occ[2].Date)
}

func TestExpand_Frequencies(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	daily := Expand(base, model.FrequencyDaily, 3)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), daily[2].Date)

	weekly := Expand(base, model.FrequencyWeekly, 3)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), weekly[2].Date)

	yearly := Expand(base, model.FrequencyYearly, 3)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), yearly[2].Date)
}

func TestExpand_CapsCount(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Len(t, Expand(base, model.FrequencyMonthly, 500), MaxInstallments)
	assert.Nil(t, Expand(base, model.FrequencyMonthly, 0))
	assert.Nil(t, Expand(base, model.FrequencyMonthly, -1))
}

func TestRenumber(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"numeric marker", "MAGAZINE LUIZA 2/10", "MAGAZINE LUIZA 3/10"},
		{"verbose marker", "Compra Parcela 2 de 10", "Compra Parcela 3 de 10"},
		{"verbose marker is case-insensitive", "compra PARCELA 2 DE 10", "compra Parcela 3 de 10"},
		{"no marker appends one", "COMPRA GELADEIRA", "COMPRA GELADEIRA 3/10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Renumber(tt.description, 3, 10))
		})
	}
}

func TestParseMarker(t *testing.T) {
	n, total := ParseMarker("LOJAS AMERICANAS 3/12")
	assert.Equal(t, 3, n)
	assert.Equal(t, 12, total)

	n, total = ParseMarker("Notebook Parcela 5 de 24")
	assert.Equal(t, 5, n)
	assert.Equal(t, 24, total)

	n, total = ParseMarker("PADARIA DO ZE")
	assert.Zero(t, n)
	assert.Zero(t, total)

	// An inverted marker is rejected rather than emitted.
	n, total = ParseMarker("COMPRA 12/3")
	assert.Zero(t, n)
	assert.Zero(t, total)
}
