package services

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the accounts of a budget.
	ListAccounts(ctx context.Context, budgetID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account and runs its creation cascade.
	// When the cascade fails the persisted account is returned together with an
	// error wrapping apperrors.ErrCascadeIncomplete.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// EnsureCascadeComplete re-runs the creation cascade for an existing account.
	// Running it on a complete account changes nothing.
	EnsureCascadeComplete(ctx context.Context, accountID string) (*domain.Account, error)

	// DeleteAccount removes an account that no transaction references,
	// together with its transfer payee and tracking category.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountCalculatorSvc defines calculation operations for account data
type AccountCalculatorSvc interface {
	// VerifyAccountBalance recomputes the account's balances from its transactions
	// and fails with apperrors.ErrInvalidState when the stored values drifted.
	VerifyAccountBalance(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCalculatorSvc
}
