package qfx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coincat/coincat/internal/model"
)

// Sample QFX data for testing.
const sampleBankQFX = `OFXHEADER:100
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
<LANGUAGE>ENG
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
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE 88123 SEATTLE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1250.00
<FITID>2024012001
<NAME>PAYROLL ACME CORP
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012501
<NAME>Whole Foods Market
<MEMO>Groceries run
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardQFX = `OFXHEADER:100
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
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		qfxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			qfxData:       sampleBankQFX,
			expectedCount: 3,
		},
		{
			name:          "valid credit card statement",
			qfxData:       sampleCreditCardQFX,
			expectedCount: 2,
		},
		{
			name:          "invalid QFX data",
			qfxData:       "not valid QFX",
			expectedError: true,
		},
		{
			name:          "empty file",
			qfxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			transactions, err := parser.ParseFile(context.Background(), strings.NewReader(tt.qfxData))

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, transactions, tt.expectedCount)
			}
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	parser := NewParser()
	transactions, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankQFX))
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	tx1 := transactions[0]
	assert.Equal(t, "2024011501", tx1.ID)
	assert.Equal(t, "STARBUCKS STORE 88123 SEATTLE", tx1.RawDescription)
	assert.Equal(t, "starbucks store seattle", tx1.Description)
	assert.Equal(t, model.Debit, tx1.Direction)
	assert.Equal(t, "25.5", tx1.Amount.String())
	assert.Equal(t, "1234567890", tx1.AccountID)
	assert.Equal(t, 2024, tx1.Date.Year())
	assert.Equal(t, time.January, tx1.Date.Month())
	assert.Equal(t, 15, tx1.Date.Day())

	// Positive amounts are credits with the sign already absorbed.
	tx2 := transactions[1]
	assert.Equal(t, model.Credit, tx2.Direction)
	assert.Equal(t, "1250", tx2.Amount.String())

	tx3 := transactions[2]
	assert.Equal(t, "Whole Foods Market", tx3.RawDescription)
	assert.Equal(t, "Groceries run", tx3.Memo)
	assert.Equal(t, model.Debit, tx3.Direction)
}

func TestParseCreditCardTransactions(t *testing.T) {
	parser := NewParser()
	transactions, err := parser.ParseFile(context.Background(), strings.NewReader(sampleCreditCardQFX))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	tx1 := transactions[0]
	assert.Equal(t, "CC2024011001", tx1.ID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", tx1.RawDescription)
	assert.Equal(t, model.Debit, tx1.Direction)
	assert.Equal(t, "45.99", tx1.Amount.String())
	assert.Equal(t, "4111111111111111", tx1.AccountID)

	tx2 := transactions[1]
	assert.Equal(t, "NETFLIX.COM", tx2.RawDescription)
	assert.Equal(t, "15", tx2.Amount.String())
}

func TestDescription(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		txnName  string
		memo     string
		expected string
	}{
		{
			name:     "clean name kept",
			txnName:  "NETFLIX.COM",
			expected: "NETFLIX.COM",
		},
		{
			name:     "generic name falls back to memo",
			txnName:  "DEBIT",
			memo:     "TRADER JOES 051",
			expected: "TRADER JOES 051",
		},
		{
			name:     "whitespace trimmed",
			txnName:  "  AMAZON.COM  ",
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.txnName),
				Memo: ofxgo.String(tt.memo),
			}
			assert.Equal(t, tt.expected, parser.description(tx))
		})
	}
}

func TestAccounts(t *testing.T) {
	parser := NewParser()

	accounts, err := parser.Accounts(context.Background(), strings.NewReader(sampleBankQFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = parser.Accounts(context.Background(), strings.NewReader(sampleCreditCardQFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)
}
