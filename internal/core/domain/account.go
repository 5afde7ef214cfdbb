package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
)

// AccountType defines how an account takes part in the budget.
type AccountType string

const (
	Bank       AccountType = "BANK"
	CreditCard AccountType = "CREDIT_CARD"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == Bank || t == CreditCard
}

// Account represents an on-budget account.
// Cleared, Uncleared and Balance are owned by the balance engine (balance.go);
// Balance always equals Cleared + Uncleared once the account is observable.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	BudgetID        string      `json:"budgetID"`        // FK -> budgets.budget_id (NON-NULL)
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // BANK or CREDIT_CARD
	CurrencyCode    string      `json:"currencyCode"`    // Currency of every transaction on the account
	TransferPayeeID string      `json:"transferPayeeID"` // Empty until the creation cascade links it
	Balance         Money       `json:"balance"`
	Cleared         Money       `json:"cleared"`
	Uncleared       Money       `json:"uncleared"`
	AuditFields
}

// NewAccount returns an account with zero balances in its currency.
func NewAccount(id, budgetID, name string, accountType AccountType, currency string) Account {
	currency = strings.ToUpper(currency)
	return Account{
		AccountID:    id,
		BudgetID:     budgetID,
		Name:         name,
		AccountType:  accountType,
		CurrencyCode: currency,
		Balance:      Zero(currency),
		Cleared:      Zero(currency),
		Uncleared:    Zero(currency),
	}
}

// IsCreditCard reports whether the account needs a payment tracking category.
func (a Account) IsCreditCard() bool {
	return a.AccountType == CreditCard
}

// Validate checks the fields required to persist a new account.
func (a Account) Validate() error {
	if a.BudgetID == "" {
		return fmt.Errorf("%w: budget ID is required", apperrors.ErrValidation)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !a.AccountType.Valid() {
		return fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, a.AccountType)
	}
	return ValidateCurrency(a.CurrencyCode)
}
