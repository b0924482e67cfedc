package category

import (
	"testing"

	"github.com/grana-app/grana/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"known merchant", "IFOOD PEDIDO 123", "Alimentação"},
		{"keyword inside longer description", "PAGAMENTO UBER TRIP SAO PAULO", "Transporte"},
		{"diacritics are ignored", "FARMÁCIA SÃO JOÃO", "Saúde"},
		{"table order breaks ties", "MERCADO LIVRE SHOPPING", "Alimentação"},
		{"no match falls back", "texto aleatório sem padrão", "Outros"},
		{"empty description falls back", "   ", "Outros"},
		{"income keyword", "SALARIO EMPRESA LTDA", "Salário"},
		{"streaming", "NETFLIX.COM ASSINATURA", "Lazer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.description))
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	for range 10 {
		assert.Equal(t, Categorize("POSTO SHELL BR 101"), Categorize("POSTO SHELL BR 101"))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alimentacao", Normalize("  Alimentação "))
	assert.Equal(t, "cafe com acucar", Normalize("CAFÉ COM AÇÚCAR"))
}

func TestMerge(t *testing.T) {
	system := Taxonomy()
	custom := []model.Category{
		{Name: "Pets", Icon: "🐶", Color: "#FFAA00", Type: model.TypeExpense},
		// Collides with the system entry regardless of case or accents.
		{Name: "alimentacao", Type: model.TypeExpense},
		// Same name, different type: no collision.
		{Name: "Pets", Type: model.TypeIncome},
	}

	merged := Merge(system, custom)

	var petsExpense, petsIncome, alimentacao int
	for _, c := range merged {
		switch {
		case c.Name == "Pets" && c.Type == model.TypeExpense:
			petsExpense++
			assert.True(t, c.IsCustom)
		case c.Name == "Pets" && c.Type == model.TypeIncome:
			petsIncome++
		case Normalize(c.Name) == "alimentacao":
			alimentacao++
			assert.False(t, c.IsCustom)
		}
	}
	assert.Equal(t, 1, petsExpense)
	assert.Equal(t, 1, petsIncome)
	assert.Equal(t, 1, alimentacao, "custom duplicate of a system category must not survive the merge")
	assert.Len(t, merged, len(system)+2)
}

func TestNames(t *testing.T) {
	names := Names(Taxonomy())
	assert.Contains(t, names, "Alimentação")
	assert.Contains(t, names, "Salário")

	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}
	assert.Equal(t, 1, seen["Outros"], "Outros exists for both types but should be listed once")
}
