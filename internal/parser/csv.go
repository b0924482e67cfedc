package parser

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/extract"
	"github.com/grana-app/grana/internal/installment"
	"github.com/grana-app/grana/internal/model"
)

// Header synonyms mapped to canonical fields. Exports vary wildly between
// banks and locales, so each canonical field accepts several spellings.
var (
	dateHeaders        = []string{"date", "data", "dt"}
	descriptionHeaders = []string{"description", "descricao", "descrição", "titulo", "título", "historico", "histórico"}
	amountHeaders      = []string{"amount", "valor", "value"}
	categoryHeaders    = []string{"category", "categoria"}
)

// csvIncomeKeywords reclassify a row as income. Rows default to expense: a
// positive amount alone says nothing about direction in most exports. Known
// limitation: a plain income row without one of these keywords (or a negative
// convention) is misread as an expense.
var csvIncomeKeywords = []string{
	"deposito",
	"recebido",
	"recebimento",
	"salario",
	"estorno",
	"reembolso",
	"rendimento",
	"transferencia recebida",
	"pix recebido",
}

// ParseRows maps delimited rows onto candidates. Rows missing a date or an
// amount are skipped with a warning; partial statements are expected and one
// bad row never aborts the batch.
func ParseRows(rows []extract.Row, bankName string) (*Statement, error) {
	stmt := &Statement{Metadata: Metadata{BankName: bankName}}

	for i, row := range rows {
		date, ok := parseRowDate(pick(row, dateHeaders))
		if !ok {
			slog.Warn("skipping row without a parseable date", "row", i+1)
			continue
		}

		// Direction comes from keywords, not from the sign: exports disagree
		// on sign conventions, so the magnitude is kept and rows default to
		// expense.
		amount, _, ok := parseRowAmount(pick(row, amountHeaders))
		if !ok || amount == 0 {
			slog.Warn("skipping row without a parseable amount", "row", i+1)
			continue
		}

		description := pick(row, descriptionHeaders)
		normalized := category.Normalize(description)

		txType := model.TypeExpense
		for _, k := range csvIncomeKeywords {
			if strings.Contains(normalized, k) {
				txType = model.TypeIncome
				break
			}
		}

		cat := pick(row, categoryHeaders)
		if cat == "" {
			cat = category.Categorize(description)
		}

		number, total := installment.ParseMarker(description)

		stmt.Candidates = append(stmt.Candidates, model.Candidate{
			Date:              date,
			Description:       description,
			Amount:            amount,
			Type:              txType,
			Category:          cat,
			SourceType:        model.SourceAccount,
			BankName:          bankName,
			InstallmentNumber: number,
			TotalInstallments: total,
			Selected:          true,
		})
	}

	return stmt, nil
}

func pick(row extract.Row, headers []string) string {
	for _, h := range headers {
		if v, ok := row[h]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// parseRowDate accepts DD/MM/YYYY (local convention) and ISO YYYY-MM-DD.
func parseRowDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02", "02/01/06"} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseRowAmount accepts comma-decimal ("1.234,56") and dot-decimal
// ("1,234.56" or "1234.56") formats, returning a positive magnitude and the
// sign of the raw token.
func parseRowAmount(value string) (amount float64, negative bool, ok bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false, false
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot {
		// Comma decimal: dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		// Dot decimal: commas are thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	if amount < 0 {
		negative = true
		amount = -amount
	}
	return amount, negative, true
}
