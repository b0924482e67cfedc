package parser

import (
	"strings"
	"testing"

	"github.com/grana-app/grana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0260
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240315120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024031501
<NAME>IFOOD PEDIDO 555
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240316120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024031602
<NAME>TED RECEBIDA
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1474.50
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseOFX(t *testing.T) {
	stmt, err := ParseOFX(strings.NewReader(sampleOFX))
	require.NoError(t, err)
	require.Len(t, stmt.Candidates, 2)

	expense := stmt.Candidates[0]
	assert.Equal(t, "IFOOD PEDIDO 555", expense.Description)
	assert.Equal(t, model.TypeExpense, expense.Type)
	assert.InDelta(t, 25.50, expense.Amount, 0.001)
	assert.Equal(t, model.SourceAccount, expense.SourceType)
	assert.Equal(t, "Alimentação", expense.Category)

	income := stmt.Candidates[1]
	assert.Equal(t, model.TypeIncome, income.Type)
	assert.InDelta(t, 1500.00, income.Amount, 0.001)

	assert.Equal(t, "0260", stmt.Metadata.BankName)
}

func TestParseOFX_Garbage(t *testing.T) {
	_, err := ParseOFX(strings.NewReader("definitely not ofx"))
	assert.Error(t, err)
}
