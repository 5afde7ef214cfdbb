package services_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/budget_ledger/internal/adapters/database/sqlite"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/core/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/SscSPs/budget_ledger/pkg/database"
	"github.com/stretchr/testify/suite"
)

// LedgerSuite runs the services against a fresh SQLite ledger file per test.
type LedgerSuite struct {
	suite.Suite
	ctx   context.Context
	db    *sql.DB
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := database.OpenSQLite(s.ctx, filepath.Join(s.T().TempDir(), "ledger.db"))
	s.Require().NoError(err)
	s.Require().NoError(database.RunSQLiteMigrations(db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.db = db
	s.repos = sqlite.NewRepositoryProvider(db, 10*time.Second)
	s.svc = services.NewServiceContainer(s.repos)
}

func (s *LedgerSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *LedgerSuite) newBudget(name string) *domain.Budget {
	b, err := s.svc.Budget.CreateBudget(s.ctx, dto.CreateBudgetRequest{Name: name, CurrencyCode: "USD"})
	s.Require().NoError(err)
	return b
}

func (s *LedgerSuite) newAccount(budgetID, name string, accountType domain.AccountType, currency string) *domain.Account {
	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		BudgetID:     budgetID,
		Name:         name,
		AccountType:  accountType,
		CurrencyCode: currency,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(acc.TransferPayeeID)
	return acc
}

func (s *LedgerSuite) newPayee(budgetID, name string) *domain.Payee {
	p, err := s.svc.Payee.CreatePayee(s.ctx, dto.CreatePayeeRequest{BudgetID: budgetID, Name: name})
	s.Require().NoError(err)
	return p
}

func (s *LedgerSuite) post(accountID, payeeID string, amount int64, status domain.TransactionStatus) *domain.Transaction {
	txn, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
		AccountID: accountID,
		PayeeID:   payeeID,
		Amount:    amount,
		Date:      "2024-01-15",
		Status:    status,
	})
	s.Require().NoError(err)
	return txn
}

func (s *LedgerSuite) account(accountID string) *domain.Account {
	acc, err := s.svc.Account.GetAccountByID(s.ctx, accountID)
	s.Require().NoError(err)
	return acc
}

// requireBalances asserts balance, cleared and uncleared of a stored account.
func (s *LedgerSuite) requireBalances(accountID string, balance, cleared, uncleared int64) {
	s.T().Helper()
	acc := s.account(accountID)
	s.Equal(balance, acc.Balance.Amount(), "balance")
	s.Equal(cleared, acc.Cleared.Amount(), "cleared")
	s.Equal(uncleared, acc.Uncleared.Amount(), "uncleared")
	s.NoError(acc.CheckBalance())
}

func (s *LedgerSuite) transactions(accountID string) []domain.Transaction {
	txns, _, err := s.svc.Transaction.ListTransactionsByAccount(s.ctx, accountID, dto.ListTransactionsParams{Limit: 500})
	s.Require().NoError(err)
	return txns
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}
