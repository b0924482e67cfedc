package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/grana-app/grana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewCandidates() []model.Candidate {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return []model.Candidate{
		{Date: date, Description: "IFOOD RESTAURANTE", Category: "Alimentação", Type: model.TypeExpense, Amount: 45.90, Selected: true},
		{Date: date, Description: "UBER TRIP", Category: "Transporte", Type: model.TypeExpense, Amount: 23.50, Selected: true},
		{Date: date, Description: "ESTORNO COMPRA", Category: "Outros", Type: model.TypeIncome, Amount: 30, Selected: true},
	}
}

func TestReview_ConfirmAll(t *testing.T) {
	var out bytes.Buffer
	reviewer := NewReviewer(strings.NewReader("\n"), &out)

	reviewed, err := reviewer.Review(context.Background(), reviewCandidates())
	require.NoError(t, err)
	require.Len(t, reviewed, 3)
	for _, c := range reviewed {
		assert.True(t, c.Selected)
	}
	assert.Contains(t, out.String(), "IFOOD RESTAURANTE")
}

func TestReview_ToggleThenConfirm(t *testing.T) {
	var out bytes.Buffer
	reviewer := NewReviewer(strings.NewReader("2\n\n"), &out)

	reviewed, err := reviewer.Review(context.Background(), reviewCandidates())
	require.NoError(t, err)
	assert.True(t, reviewed[0].Selected)
	assert.False(t, reviewed[1].Selected)
	assert.True(t, reviewed[2].Selected)
}

func TestReview_NoneThenAll(t *testing.T) {
	var out bytes.Buffer
	reviewer := NewReviewer(strings.NewReader("n\na\n\n"), &out)

	reviewed, err := reviewer.Review(context.Background(), reviewCandidates())
	require.NoError(t, err)
	for _, c := range reviewed {
		assert.True(t, c.Selected)
	}
}

func TestReview_Abort(t *testing.T) {
	var out bytes.Buffer
	reviewer := NewReviewer(strings.NewReader("q\n"), &out)

	_, err := reviewer.Review(context.Background(), reviewCandidates())
	assert.ErrorIs(t, err, ErrReviewAborted)
}

func TestReview_DoesNotMutateInput(t *testing.T) {
	var out bytes.Buffer
	reviewer := NewReviewer(strings.NewReader("1\n\n"), &out)

	original := reviewCandidates()
	_, err := reviewer.Review(context.Background(), original)
	require.NoError(t, err)
	assert.True(t, original[0].Selected)
}

func TestRenderCandidateTable_TruncatesOnRunes(t *testing.T) {
	c := reviewCandidates()[0]
	// 50 runes, accented characters sitting on the truncation boundary.
	c.Description = strings.Repeat("çã", 25)

	table := RenderCandidateTable([]model.Candidate{c})
	assert.NotContains(t, table, "�")
	assert.Contains(t, table, strings.Repeat("çã", 18)+"ç...")
}

func TestRenderCandidateTable_InstallmentMarker(t *testing.T) {
	c := reviewCandidates()[0]
	c.InstallmentNumber = 2
	c.TotalInstallments = 10

	table := RenderCandidateTable([]model.Candidate{c})
	assert.Contains(t, table, "(2/10)")
	assert.Contains(t, table, "[x]")
}
