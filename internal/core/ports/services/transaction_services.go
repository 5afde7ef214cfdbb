package services

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount returns a page of transactions, newest first, and the token of the next page.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// PostTransaction records a transaction and updates the account balances.
	// A transfer payee makes it a transfer: the mirrored transaction is posted on the
	// other account in the same storage transaction, or nothing is posted at all.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction reverses the transaction's old contribution and applies the new one.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction reverses and removes a transaction and its transfer counterpart.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
