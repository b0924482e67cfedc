package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/installment"
	"github.com/grana-app/grana/internal/model"
)

// NubankParser reads Nubank credit-card invoice ("fatura") text.
//
// The layout is a running list of lines shaped as
//
//	DD MES DESCRIPTION ... R$ 1.234,56
//
// with invoice metadata (total limit, due day, closing day) scattered across
// the header pages. Everything here is a heuristic over OCR-grade text:
// unmatched lines are simply skipped.
type NubankParser struct{}

// NewNubankParser returns the reference issuer parser.
func NewNubankParser() *NubankParser {
	return &NubankParser{}
}

// Issuer implements Parser.
func (p *NubankParser) Issuer() string { return "Nubank" }

// Detect implements Parser.
func (p *NubankParser) Detect(text string) bool {
	return containsFold(text, "nubank") || containsFold(text, "nu pagamentos")
}

var ptMonths = map[string]time.Month{
	"JAN": time.January, "FEV": time.February, "MAR": time.March,
	"ABR": time.April, "MAI": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "SET": time.September,
	"OUT": time.October, "NOV": time.November, "DEZ": time.December,
}

var ptMonthNames = map[string]time.Month{
	"janeiro": time.January, "fevereiro": time.February, "marco": time.March,
	"abril": time.April, "maio": time.May, "junho": time.June,
	"julho": time.July, "agosto": time.August, "setembro": time.September,
	"outubro": time.October, "novembro": time.November, "dezembro": time.December,
}

var (
	// Transaction-shaped line: 2-digit day, month abbreviation, description,
	// trailing amount (optionally negative, optionally R$-prefixed).
	txnLine = regexp.MustCompile(`(?im)^\s*(\d{2})\s+(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)\b\s+(.+?)\s+(-?\s?(?:R\$\s?)?-?\d{1,3}(?:\.\d{3})*,\d{2})\s*$`)

	limitPattern   = regexp.MustCompile(`(?i)limite\s+total(?:\s+de)?\s*:?\s*R\$\s?([\d.]+,\d{2})`)
	duePattern     = regexp.MustCompile(`(?i)vencimento\s*:?\s*(?:dia\s+)?(\d{1,2})`)
	closingPattern = regexp.MustCompile(`(?i)fechamento\s*:?\s*(?:dia\s+)?(\d{1,2})`)

	yearInText     = regexp.MustCompile(`(?i)(?:fatura|vencimento)[^\n]*?\b(20\d{2})\b`)
	// No word boundaries here: filenames separate tokens with underscores,
	// which regexp counts as word characters.
	yearInFilename = regexp.MustCompile(`(20\d{2})`)

	// A description that is itself a wrapped date fragment from the next line.
	wrappedDate = regexp.MustCompile(`(?i)^\d{2}\s+(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)$`)
)

// boilerplate descriptions that look like transactions but are statement
// bookkeeping: totals, limits, carried balance and invoice payments. Invoice
// payments in particular must not become expenses, or the amount would be
// double-counted against the linked checking account.
var boilerplate = []string{
	"pagamento recebido",
	"pagamento em ",
	"pagamento de fatura",
	"pgto de fatura",
	"saldo anterior",
	"saldo em aberto",
	"limite total",
	"limite disponivel",
	"total a pagar",
	"total da fatura",
	"encargos de",
	"juros de",
}

var incomeKeywords = []string{
	"estorno",
	"reembolso",
	"devolucao",
	"credito de",
}

// Parse implements Parser.
func (p *NubankParser) Parse(text string, hint Hint) (*Statement, error) {
	stmt := &Statement{
		Metadata: Metadata{BankName: p.Issuer()},
	}

	p.scanMetadata(text, &stmt.Metadata)

	invoiceYear := p.invoiceYear(text, hint)
	invoiceMonth := filenameMonth(hint.Filename)

	seen := make(map[string]struct{})
	for _, m := range txnLine.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, ok := ptMonths[strings.ToUpper(m[2])]
		if !ok || day < 1 || day > 31 {
			continue
		}

		description := trimDescription(m[3])
		normalized := category.Normalize(description)
		if isBoilerplate(normalized) || isDegenerate(normalized) {
			continue
		}

		amount, negative, err := parseBRLAmount(m[4])
		if err != nil || amount == 0 {
			continue
		}

		year := invoiceYear
		// A January invoice lists late-December purchases from the previous
		// year; the billing cycle straddles the year boundary.
		if invoiceMonth == time.January && month == time.December {
			year--
		}
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		txType := model.TypeExpense
		if negative || hasIncomeKeyword(normalized) {
			txType = model.TypeIncome
		}

		number, total := installment.ParseMarker(description)

		key := fmt.Sprintf("%s|%s|%.2f", date.Format("2006-01-02"), normalized, amount)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		stmt.Candidates = append(stmt.Candidates, model.Candidate{
			Date:              date,
			Description:       description,
			Amount:            amount,
			Type:              txType,
			Category:          category.Categorize(description),
			SourceType:        model.SourceCard,
			BankName:          p.Issuer(),
			InstallmentNumber: number,
			TotalInstallments: total,
			Selected:          true,
		})
	}

	return stmt, nil
}

// scanMetadata runs the independent metadata pattern scans. A missing closing
// day is derived from the due day using the issuer's billing convention of
// closing seven days before the due date.
func (p *NubankParser) scanMetadata(text string, meta *Metadata) {
	if m := limitPattern.FindStringSubmatch(text); m != nil {
		if limit, _, err := parseBRLAmount(m[1]); err == nil {
			meta.Limit = limit
		}
	}
	if m := duePattern.FindStringSubmatch(text); m != nil {
		if day, err := strconv.Atoi(m[1]); err == nil && day >= 1 && day <= 31 {
			meta.DueDay = day
		}
	}
	if m := closingPattern.FindStringSubmatch(text); m != nil {
		if day, err := strconv.Atoi(m[1]); err == nil && day >= 1 && day <= 31 {
			meta.ClosingDay = day
		}
	}
	if meta.ClosingDay == 0 && meta.DueDay > 0 {
		meta.ClosingDay = meta.DueDay - 7
		if meta.ClosingDay < 1 {
			meta.ClosingDay = 1
		}
	}
}

// invoiceYear picks the statement year. The filename wins over a year token
// found near FATURA/Vencimento in the text, which wins over the current year.
func (p *NubankParser) invoiceYear(text string, hint Hint) int {
	if m := yearInFilename.FindStringSubmatch(hint.Filename); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year
	}
	if m := yearInText.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year
	}
	return hint.now().Year()
}

// filenameMonth finds a Portuguese month name in the filename, if any.
func filenameMonth(filename string) time.Month {
	normalized := category.Normalize(filename)
	for name, month := range ptMonthNames {
		if strings.Contains(normalized, name) {
			return month
		}
	}
	return 0
}

// trimDescription cuts a description at the first embedded currency marker,
// correcting regex over-capture when two columns bleed together.
func trimDescription(description string) string {
	if idx := strings.Index(description, "R$"); idx >= 0 {
		description = description[:idx]
	}
	return strings.TrimSpace(description)
}

func isBoilerplate(normalized string) bool {
	for _, b := range boilerplate {
		if strings.Contains(normalized, b) {
			return true
		}
	}
	return false
}

func isDegenerate(normalized string) bool {
	if len(normalized) < 3 {
		return true
	}
	return wrappedDate.MatchString(strings.ToUpper(normalized))
}

func hasIncomeKeyword(normalized string) bool {
	for _, k := range incomeKeywords {
		if strings.Contains(normalized, k) {
			return true
		}
	}
	return false
}

// parseBRLAmount reads a Brazilian-formatted amount token ("R$ 1.234,56",
// optionally negative) into a positive magnitude plus its sign.
func parseBRLAmount(token string) (amount float64, negative bool, err error) {
	s := strings.TrimSpace(token)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	amount, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unparseable amount %q: %w", token, err)
	}
	if amount < 0 {
		negative = true
		amount = -amount
	}
	return amount, negative, nil
}
