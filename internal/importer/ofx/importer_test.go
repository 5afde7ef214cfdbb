package ofx_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/budget_ledger/internal/adapters/database/sqlite"
	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/core/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/SscSPs/budget_ledger/internal/importer/ofx"
	"github.com/SscSPs/budget_ledger/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementTemplate = `OFXHEADER:100
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
<CURDEF>{{CUR}}
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
<NAME>POS PURCHASE Coffee Shop
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024012001
<NAME>Employer Payroll
<MEMO>January salary
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE Coffee Shop
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1474.50
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func statementIn(currency string) string {
	return strings.ReplaceAll(statementTemplate, "{{CUR}}", currency)
}

func TestParse(t *testing.T) {
	statements, err := ofx.Parse(strings.NewReader(statementIn("USD")))
	require.NoError(t, err)
	require.Len(t, statements, 1)

	stmt := statements[0]
	assert.Equal(t, "1234567890", stmt.AccountNumber)
	assert.Equal(t, "USD", stmt.Currency)
	require.Len(t, stmt.Lines, 3)
	assert.Equal(t, "Coffee Shop", stmt.Lines[0].Payee)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), stmt.Lines[0].Posted)

	amount, err := domain.ParseMoney(stmt.Lines[0].Amount, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(-2550), amount.Amount())
	assert.Equal(t, "January salary", stmt.Lines[1].Memo)
}

func TestParse_Garbage(t *testing.T) {
	_, err := ofx.Parse(strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}

func newFixture(t *testing.T, currency string) (context.Context, *ofx.Importer, *domain.Account, func(string) *domain.Account) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunSQLiteMigrations(db, slog.New(slog.NewTextHandler(io.Discard, nil))))

	container := services.NewServiceContainer(sqlite.NewRepositoryProvider(db, 10*time.Second))
	budget, err := container.Budget.CreateBudget(ctx, dto.CreateBudgetRequest{Name: "Home", CurrencyCode: currency})
	require.NoError(t, err)
	account, err := container.Account.CreateAccount(ctx, dto.CreateAccountRequest{
		BudgetID:    budget.BudgetID,
		Name:        "Checking",
		AccountType: domain.Bank,
	})
	require.NoError(t, err)

	reload := func(id string) *domain.Account {
		acc, err := container.Account.VerifyAccountBalance(ctx, id)
		require.NoError(t, err)
		return acc
	}
	return ctx, ofx.NewImporter(container), account, reload
}

func TestImport(t *testing.T) {
	ctx, importer, account, reload := newFixture(t, "USD")

	result, err := importer.Import(ctx, account.AccountID, strings.NewReader(statementIn("USD")), domain.Cleared)
	require.NoError(t, err)
	require.Len(t, result.Posted, 2)
	assert.Equal(t, 1, result.Skipped)

	acc := reload(account.AccountID)
	assert.Equal(t, int64(147450), acc.Balance.Amount())
	assert.Equal(t, int64(147450), acc.Cleared.Amount())
	assert.Equal(t, int64(0), acc.Uncleared.Amount())
}

func TestImport_CurrencyMismatch(t *testing.T) {
	ctx, importer, account, reload := newFixture(t, "USD")

	_, err := importer.Import(ctx, account.AccountID, strings.NewReader(statementIn("EUR")), domain.Cleared)
	require.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
	assert.True(t, reload(account.AccountID).Balance.IsZero())
}

func TestImport_UnknownAccount(t *testing.T) {
	ctx, importer, _, _ := newFixture(t, "USD")

	_, err := importer.Import(ctx, "missing", strings.NewReader(statementIn("USD")), domain.Cleared)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
