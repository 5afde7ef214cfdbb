package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
)

// TransactionStatus tells whether a transaction has settled with the institution.
type TransactionStatus string

const (
	Uncleared  TransactionStatus = "UNCLEARED"
	Cleared    TransactionStatus = "CLEARED"
	Reconciled TransactionStatus = "RECONCILED"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case Uncleared, Cleared, Reconciled:
		return true
	}
	return false
}

// IsCleared reports whether the status contributes to the cleared balance.
func (s TransactionStatus) IsCleared() bool {
	return s == Cleared || s == Reconciled
}

// Transaction is a single signed movement on an account.
// Positive amounts are inflows, negative amounts outflows.
type Transaction struct {
	TransactionID         string            `json:"transactionID"`
	AccountID             string            `json:"accountID"`
	PayeeID               string            `json:"payeeID"`
	Amount                Money             `json:"amount"`
	Date                  time.Time         `json:"date"`
	Memo                  string            `json:"memo"`
	CategoryID            string            `json:"categoryID"` // Nullable
	Status                TransactionStatus `json:"status"`
	TransferTransactionID string            `json:"transferTransactionID"` // Other side of a transfer
	AuditFields
}

// IsTransfer reports whether the transaction has a mirrored side on another account.
func (t Transaction) IsTransfer() bool {
	return t.TransferTransactionID != ""
}

// Validate checks the fields every persisted transaction must carry.
func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return fmt.Errorf("%w: account ID is required", apperrors.ErrValidation)
	}
	if t.PayeeID == "" {
		return fmt.Errorf("%w: payee ID is required", apperrors.ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown transaction status %q", apperrors.ErrValidation, t.Status)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", apperrors.ErrValidation)
	}
	return ValidateCurrency(t.Amount.Currency())
}
