package repositories

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/models"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of an account's transactions, newest first,
	// using token-based pagination. It returns the transactions, a token for the next page, and an error.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumTransactionsByStatus totals an account's stored transactions split by clearing state.
	SumTransactionsByStatus(ctx context.Context, accountID string) (models.StatusTotals, error)

	// CountTransactionsReferencing counts transactions that use the account, payee or category.
	// Empty arguments are ignored.
	CountTransactionsReferencing(ctx context.Context, accountID, payeeID, categoryID string) (int, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction rewrites every mutable column of a transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction row.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
