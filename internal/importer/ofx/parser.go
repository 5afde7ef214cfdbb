// Package ofx imports OFX/QFX bank and credit card statements into an account.
package ofx

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
)

// StatementLine is one transaction read from a statement.
type StatementLine struct {
	FITID  string
	Posted time.Time
	Amount string // signed major units, e.g. "-25.50"
	Payee  string
	Memo   string
}

// Statement is the content of one bank or credit card statement.
type Statement struct {
	AccountNumber string
	Currency      string
	Lines         []StatementLine
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes formatting issues common in bank exports that ofxgo rejects.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads every bank and credit card statement in an OFX document.
func Parse(r io.Reader) ([]Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var statements []Statement
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			statements = append(statements, statement(string(stmt.BankAcctFrom.AcctID), stmt.CurDef, stmt.BankTranList))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			statements = append(statements, statement(string(stmt.CCAcctFrom.AcctID), stmt.CurDef, stmt.BankTranList))
		}
	}
	return statements, nil
}

func statement(accountNumber string, curDef ofxgo.CurrSymbol, list *ofxgo.TransactionList) Statement {
	s := Statement{AccountNumber: accountNumber}
	// An absent CURDEF parses to the "no currency" code.
	if code := strings.ToUpper(curDef.String()); code != "XXX" {
		s.Currency = code
	}
	if list == nil {
		return s
	}
	for _, t := range list.Transactions {
		s.Lines = append(s.Lines, StatementLine{
			FITID:  string(t.FiTID),
			Posted: t.DtPosted.Time.UTC(),
			Amount: t.TrnAmt.Rat.FloatString(8),
			Payee:  payeeName(t),
			Memo:   strings.TrimSpace(string(t.Memo)),
		})
	}
	return s
}

// payeeName prefers the structured PAYEE aggregate and falls back to NAME,
// then MEMO when NAME is a generic bank description.
func payeeName(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}
	name := strings.TrimSpace(string(t.Name))
	if t.Memo != "" && isGeneric(name) {
		name = strings.TrimSpace(string(t.Memo))
	}
	for _, prefix := range []string{"POS PURCHASE ", "DEBIT CARD PURCHASE ", "ACH DEBIT ", "CHECK CARD "} {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION":
		return true
	}
	return false
}
