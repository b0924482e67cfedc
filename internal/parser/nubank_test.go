package parser

import (
	"testing"
	"time"

	"github.com/grana-app/grana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFatura = `Nubank - Fatura
Vencimento: 17 de abril de 2024
Limite total: R$ 5.000,00

TRANSAÇÕES

15 MAR IFOOD PEDIDO 123 R$ 42,90
16 MAR UBER TRIP SAO PAULO R$ 18,50
18 MAR MAGAZINE LUIZA 2/10 R$ 120,00
20 MAR ESTORNO DE COMPRA -R$ 55,00
22 MAR Pagamento recebido R$ 1.500,00
25 MAR Saldo anterior R$ 320,10
25 MAR PADARIA DO ZE R$ 9,90
25 MAR PADARIA DO ZE R$ 9,90
`

func fixedHint(filename string) Hint {
	return Hint{
		Filename: filename,
		Now:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNubankParser_Parse(t *testing.T) {
	p := NewNubankParser()

	stmt, err := p.Parse(sampleFatura, fixedHint("Nubank_2024-04.pdf"))
	require.NoError(t, err)

	// Payment received, carried balance and the OCR-duplicated bakery line
	// are all filtered; 5 real purchases remain.
	require.Len(t, stmt.Candidates, 5)

	byDescription := map[string]model.Candidate{}
	for _, c := range stmt.Candidates {
		byDescription[c.Description] = c
	}

	ifood := byDescription["IFOOD PEDIDO 123"]
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ifood.Date)
	assert.InDelta(t, 42.90, ifood.Amount, 0.001)
	assert.Equal(t, model.TypeExpense, ifood.Type)
	assert.Equal(t, "Alimentação", ifood.Category)
	assert.Equal(t, model.SourceCard, ifood.SourceType)
	assert.Equal(t, "Nubank", ifood.BankName)
	assert.True(t, ifood.Selected)

	installment := byDescription["MAGAZINE LUIZA 2/10"]
	assert.Equal(t, 2, installment.InstallmentNumber)
	assert.Equal(t, 10, installment.TotalInstallments)

	estorno := byDescription["ESTORNO DE COMPRA"]
	assert.Equal(t, model.TypeIncome, estorno.Type)
	assert.InDelta(t, 55.00, estorno.Amount, 0.001, "amount keeps its absolute value")
}

func TestNubankParser_Metadata(t *testing.T) {
	p := NewNubankParser()

	stmt, err := p.Parse(sampleFatura, fixedHint(""))
	require.NoError(t, err)

	assert.Equal(t, "Nubank", stmt.Metadata.BankName)
	assert.InDelta(t, 5000.00, stmt.Metadata.Limit, 0.001)
	assert.Equal(t, 17, stmt.Metadata.DueDay)
	// No explicit closing day in the text: derived as dueDay-7.
	assert.Equal(t, 10, stmt.Metadata.ClosingDay)
}

func TestNubankParser_ClosingDayFloor(t *testing.T) {
	p := NewNubankParser()

	stmt, err := p.Parse("Nubank fatura\nVencimento: 03", fixedHint(""))
	require.NoError(t, err)
	assert.Equal(t, 3, stmt.Metadata.DueDay)
	assert.Equal(t, 1, stmt.Metadata.ClosingDay, "derived closing day floors at 1")
}

func TestNubankParser_YearRollover(t *testing.T) {
	p := NewNubankParser()
	text := `Nubank - Fatura
20 DEZ LOJAS AMERICANAS R$ 99,00
05 JAN POSTO SHELL R$ 200,00
`

	stmt, err := p.Parse(text, fixedHint("Fatura_Janeiro_de_2024.pdf"))
	require.NoError(t, err)
	require.Len(t, stmt.Candidates, 2)

	byDescription := map[string]model.Candidate{}
	for _, c := range stmt.Candidates {
		byDescription[c.Description] = c
	}

	// A January invoice bills late-December purchases from the prior year.
	assert.Equal(t, time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC), byDescription["LOJAS AMERICANAS"].Date)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), byDescription["POSTO SHELL"].Date)
}

func TestNubankParser_YearFromText(t *testing.T) {
	p := NewNubankParser()
	text := `Nubank
Fatura de março de 2023
10 MAR MERCADO CENTRAL R$ 80,00
`

	stmt, err := p.Parse(text, fixedHint(""))
	require.NoError(t, err)
	require.Len(t, stmt.Candidates, 1)
	assert.Equal(t, 2023, stmt.Candidates[0].Date.Year())
}

func TestNubankParser_FilenameYearWins(t *testing.T) {
	p := NewNubankParser()
	text := `Nubank
Fatura de março de 2023
10 MAR MERCADO CENTRAL R$ 80,00
`

	stmt, err := p.Parse(text, fixedHint("fatura_2022.pdf"))
	require.NoError(t, err)
	require.Len(t, stmt.Candidates, 1)
	assert.Equal(t, 2022, stmt.Candidates[0].Date.Year())
}

func TestNubankParser_TrimsEmbeddedCurrencyMarker(t *testing.T) {
	p := NewNubankParser()
	text := "Nubank\n12 MAR RESTAURANTE FOGO R$ 31,00 R$ 62,00\n"

	stmt, err := p.Parse(text, fixedHint("2024.pdf"))
	require.NoError(t, err)
	require.Len(t, stmt.Candidates, 1)
	assert.Equal(t, "RESTAURANTE FOGO", stmt.Candidates[0].Description)
}

func TestNubankParser_SkipsDegenerateLines(t *testing.T) {
	p := NewNubankParser()
	text := "Nubank\n12 MAR 13 ABR R$ 10,00\n14 MAR AB R$ 10,00\n"

	stmt, err := p.Parse(text, fixedHint("2024.pdf"))
	require.NoError(t, err)
	assert.Empty(t, stmt.Candidates)
}

func TestNubankParser_Detect(t *testing.T) {
	p := NewNubankParser()
	assert.True(t, p.Detect("NUBANK fatura"))
	assert.True(t, p.Detect("Nu Pagamentos S.A."))
	assert.False(t, p.Detect("Banco Inter extrato"))
}

func TestParseText_FallsBackWithoutIssuerMatch(t *testing.T) {
	stmt, err := ParseText("10 MAR COISA QUALQUER R$ 10,00", fixedHint("2024.pdf"))
	require.NoError(t, err)
	require.Len(t, stmt.Candidates, 1)
	assert.Equal(t, "COISA QUALQUER", stmt.Candidates[0].Description)
}
