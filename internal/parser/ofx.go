package parser

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/model"
)

// ParseOFX reads an OFX/QFX bank export into a statement. OFX carries signed
// amounts, so direction comes from the sign rather than keyword heuristics;
// credit-card statements map to card-sourced candidates.
func ParseOFX(r io.Reader) (*Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX input: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX: %w", err)
	}

	stmt := &Statement{}

	for _, msg := range resp.Bank {
		bankStmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || bankStmt.BankTranList == nil {
			continue
		}
		if stmt.Metadata.BankName == "" {
			stmt.Metadata.BankName = string(bankStmt.BankAcctFrom.BankID)
		}
		for _, tx := range bankStmt.BankTranList.Transactions {
			stmt.Candidates = append(stmt.Candidates, convertOFXTransaction(tx, model.SourceAccount, stmt.Metadata.BankName))
		}
	}

	for _, msg := range resp.CreditCard {
		ccStmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || ccStmt.BankTranList == nil {
			continue
		}
		if stmt.Metadata.BankName == "" {
			stmt.Metadata.BankName = string(ccStmt.CCAcctFrom.AcctID)
		}
		for _, tx := range ccStmt.BankTranList.Transactions {
			stmt.Candidates = append(stmt.Candidates, convertOFXTransaction(tx, model.SourceCard, stmt.Metadata.BankName))
		}
	}

	slog.Info("parsed OFX statement", "candidates", len(stmt.Candidates))
	return stmt, nil
}

// preprocessOFX repairs the SGML quirks banks ship: mixed-case severity
// values and opening tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	severity := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severity.ReplaceAllStringFunc(content, strings.ToUpper)

	danglingTag := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	return danglingTag.ReplaceAllString(content, "$1>")
}

func convertOFXTransaction(tx ofxgo.Transaction, source model.SourceType, bankName string) model.Candidate {
	amount, _ := tx.TrnAmt.Float64()
	txType := model.TypeExpense
	if amount > 0 {
		txType = model.TypeIncome
	}
	if amount < 0 {
		amount = -amount
	}

	description := string(tx.Name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		description = string(tx.Payee.Name)
	}
	if description == "" {
		description = string(tx.Memo)
	}

	return model.Candidate{
		Date:        tx.DtPosted.Time,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    category.Categorize(description),
		SourceType:  source,
		BankName:    bankName,
		Selected:    true,
	}
}
