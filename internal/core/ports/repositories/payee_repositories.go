package repositories

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
)

// PayeeReader defines read operations for payee data
type PayeeReader interface {
	FindPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error)

	// FindPayeeByTransferAccount returns the transfer payee that stands for an account.
	FindPayeeByTransferAccount(ctx context.Context, accountID string) (*domain.Payee, error)

	// FindPayeeByName returns a regular (non-transfer) payee of a budget by exact name.
	FindPayeeByName(ctx context.Context, budgetID, name string) (*domain.Payee, error)

	ListPayees(ctx context.Context, budgetID string) ([]domain.Payee, error)
}

// PayeeWriter defines write operations for payee data
type PayeeWriter interface {
	// SavePayee persists a new payee. A second payee for the same transfer account yields ErrDuplicate.
	SavePayee(ctx context.Context, payee domain.Payee) error

	DeletePayee(ctx context.Context, payeeID string) error
}

// PayeeRepositoryFacade combines all payee-related repository interfaces
type PayeeRepositoryFacade interface {
	PayeeReader
	PayeeWriter
}
