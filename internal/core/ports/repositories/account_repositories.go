package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByBudget retrieves the accounts of a budget ordered by name.
	ListAccountsByBudget(ctx context.Context, budgetID string) ([]domain.Account, error)

	// CountAccountsByBudget returns how many accounts a budget owns.
	CountAccountsByBudget(ctx context.Context, budgetID string) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// LinkTransferPayee sets the account's transfer payee if it has none yet.
	// It reports whether the link was written by this call.
	LinkTransferPayee(ctx context.Context, accountID, payeeID string, now time.Time) (bool, error)

	// DeleteAccount removes an account row.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountTransactionSupport defines operations that support balance mutation.
// They must be called with a context obtained from TransactionManager.WithinTx.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them, in ascending ID order,
	// until the surrounding transaction ends. A missing ID yields ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances writes the balance, cleared and uncleared amounts of each account.
	UpdateAccountBalances(ctx context.Context, accounts []domain.Account, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
