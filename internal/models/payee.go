package models

import "database/sql"

// Payee is the stored form of a payee.
type Payee struct {
	PayeeID           string         `db:"payee_id"`
	BudgetID          string         `db:"budget_id"`
	Name              string         `db:"name"`
	TransferAccountID sql.NullString `db:"transfer_account_id"` // Nullable
	AuditFields
}
