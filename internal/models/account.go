package models

import "database/sql"

// AccountType is the stored account type.
type AccountType string

const (
	Bank       AccountType = "BANK"
	CreditCard AccountType = "CREDIT_CARD"
)

// Account is the stored form of an account. Balances are minor units in CurrencyCode.
type Account struct {
	AccountID       string         `db:"account_id"`
	BudgetID        string         `db:"budget_id"`
	Name            string         `db:"name"`
	AccountType     AccountType    `db:"account_type"`
	CurrencyCode    string         `db:"currency_code"`
	TransferPayeeID sql.NullString `db:"transfer_payee_id"` // Nullable until the cascade links it
	Balance         int64          `db:"balance"`
	Cleared         int64          `db:"cleared"`
	Uncleared       int64          `db:"uncleared"`
	AuditFields
}
