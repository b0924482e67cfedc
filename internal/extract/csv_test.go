package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows_CommaDelimited(t *testing.T) {
	input := "Date,Description,Amount\n2024-03-15,PIX RECEBIDO,500.00\n2024-03-16,MERCADO,89.90\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-03-15", rows[0]["date"])
	assert.Equal(t, "PIX RECEBIDO", rows[0]["description"])
	assert.Equal(t, "500.00", rows[0]["amount"])
}

func TestReadRows_SemicolonDelimited(t *testing.T) {
	input := "Data;Descrição;Valor\n15/03/2024;PIX RECEBIDO João;500,00\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "15/03/2024", rows[0]["data"])
	assert.Equal(t, "500,00", rows[0]["valor"])
}

func TestReadRows_HeadersAreNormalized(t *testing.T) {
	input := "  DATE , Description ,AMOUNT\n2024-01-01,x,1\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, hasDate := rows[0]["date"]
	assert.True(t, hasDate)
}

func TestReadRows_StripsBOM(t *testing.T) {
	input := "\ufeffdata,valor\n01/01/2024,10\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "01/01/2024", rows[0]["data"])
}

func TestReadRows_RaggedRecords(t *testing.T) {
	input := "data,descricao,valor\n01/01/2024,so duas colunas\n02/01/2024,tres,30,extra\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "so duas colunas", rows[0]["descricao"])
	assert.Empty(t, rows[0]["valor"])
	assert.Equal(t, "30", rows[1]["valor"])
}

func TestReadRows_EmptyInput(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""))
	assert.Error(t, err)

	rows, err := ReadRows(strings.NewReader("data,valor\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
