package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/budget_ledger/internal/adapters/database/sqlite"
	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunSQLiteMigrations(db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return sqlite.NewRepositoryProvider(db, 5*time.Second)
}

func seed(t *testing.T, repos portsrepo.RepositoryProvider) (domain.Budget, domain.Account) {
	t.Helper()
	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	budget := domain.Budget{BudgetID: "b1", Name: "Household", CurrencyCode: "USD",
		AuditFields: domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts}}
	require.NoError(t, repos.BudgetRepo.SaveBudget(ctx, budget))

	account := domain.NewAccount("a1", budget.BudgetID, "Checking", domain.Bank, "USD")
	account.CreatedAt, account.LastUpdatedAt = ts, ts
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, account))
	return budget, account
}

func TestFindAccountsByIDsForUpdate_RequiresTransaction(t *testing.T) {
	repos := setup(t)
	seed(t, repos)
	ctx := context.Background()

	_, err := repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, []string{"a1"})
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)

	err = repos.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		accounts, err := repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, []string{"a1", "a1"})
		require.NoError(t, err)
		assert.Len(t, accounts, 1)

		_, err = repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, []string{"a1", "missing"})
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	repos := setup(t)
	_, account := seed(t, repos)
	ctx := context.Background()

	err := repos.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, []string{account.AccountID})
		require.NoError(t, err)
		acc := locked[account.AccountID]
		require.NoError(t, acc.Apply(domain.NewMoney(700, "USD"), domain.Cleared))
		require.NoError(t, repos.AccountRepo.UpdateAccountBalances(ctx, []domain.Account{acc}, time.Now().UTC()))
		// Nested units of work join the outer transaction.
		return repos.TxManager.WithinTx(ctx, func(ctx context.Context) error {
			return apperrors.ErrConflict
		})
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := repos.AccountRepo.FindAccountByID(ctx, account.AccountID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero())
}

func TestConstraintErrorsAreMapped(t *testing.T) {
	repos := setup(t)
	budget, account := seed(t, repos)
	ctx := context.Background()
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	group := domain.CategoryGroup{CategoryGroupID: "g1", BudgetID: budget.BudgetID, Name: "Bills",
		AuditFields: domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts}}
	require.NoError(t, repos.CategoryRepo.SaveCategoryGroup(ctx, group))
	group.CategoryGroupID = "g2"
	assert.ErrorIs(t, repos.CategoryRepo.SaveCategoryGroup(ctx, group), apperrors.ErrDuplicate)

	payee := domain.Payee{PayeeID: "p1", BudgetID: budget.BudgetID, Name: "Transfer : Checking", TransferAccountID: account.AccountID,
		AuditFields: domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts}}
	require.NoError(t, repos.PayeeRepo.SavePayee(ctx, payee))
	payee.PayeeID = "p2"
	assert.ErrorIs(t, repos.PayeeRepo.SavePayee(ctx, payee), apperrors.ErrDuplicate, "one transfer payee per account")

	payee = domain.Payee{PayeeID: "p3", BudgetID: "no-such-budget", Name: "Ghost",
		AuditFields: domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts}}
	assert.ErrorIs(t, repos.PayeeRepo.SavePayee(ctx, payee), apperrors.ErrValidation)

	linked, err := repos.AccountRepo.LinkTransferPayee(ctx, account.AccountID, "p1", ts)
	require.NoError(t, err)
	assert.True(t, linked)
	linked, err = repos.AccountRepo.LinkTransferPayee(ctx, account.AccountID, "p1", ts)
	require.NoError(t, err)
	assert.False(t, linked, "an existing link is never overwritten")
}

func TestListTransactionsByAccount_EmptyPage(t *testing.T) {
	repos := setup(t)
	_, account := seed(t, repos)

	txns, next, err := repos.TransactionRepo.ListTransactionsByAccount(context.Background(), account.AccountID, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Nil(t, next)

	totals, err := repos.TransactionRepo.SumTransactionsByStatus(context.Background(), account.AccountID)
	require.NoError(t, err)
	assert.Zero(t, totals.Cleared)
	assert.Zero(t, totals.Uncleared)
}
